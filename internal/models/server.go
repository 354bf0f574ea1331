package models

import "time"

// Server types selectable in the creation wizard.
const (
	TypeDiscordBot = "discord-bot"
	TypeGameServer = "game-server"
	TypeWebApp     = "web-app"
	TypeDatabase   = "database"
)

// Server statuses. offline -> starting -> online, online -> stopping ->
// offline, online/offline -> restarting -> online.
const (
	StatusOffline    = "offline"
	StatusStarting   = "starting"
	StatusOnline     = "online"
	StatusStopping   = "stopping"
	StatusRestarting = "restarting"
)

// Specs is the resource allocation attached to a server at creation time,
// derived from the owner's plan tier.
type Specs struct {
	RAM     string `json:"ram"     bson:"ram"`
	Storage string `json:"storage" bson:"storage"`
	CPU     string `json:"cpu"     bson:"cpu"`
}

// SpecsFor returns the tier table entry for a plan.
func SpecsFor(plan string) Specs {
	switch plan {
	case PlanPremium:
		return Specs{RAM: "2GB", Storage: "50GB", CPU: "2 Cores"}
	case PlanEnterprise:
		return Specs{RAM: "8GB", Storage: "200GB", CPU: "4 Cores"}
	default:
		return Specs{RAM: "512MB", Storage: "10GB", CPU: "1 Core"}
	}
}

// Server represents a hosted workload owned by a user. Generation counts
// accepted lifecycle transitions; a delayed settle only lands while the
// generation it was scheduled under is still current.
type Server struct {
	ID         string    `json:"id"         bson:"_id"`
	OwnerID    string    `json:"owner_id"   bson:"owner_id"`
	Name       string    `json:"name"       bson:"name"`
	Type       string    `json:"type"       bson:"type"`
	Status     string    `json:"status"     bson:"status"`
	Runtime    string    `json:"runtime"    bson:"runtime"`
	Region     string    `json:"region"     bson:"region"`
	Specs      Specs     `json:"specs"      bson:"specs"`
	Generation int64     `json:"-"          bson:"generation"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// ValidServerType reports whether t names a known server type.
func ValidServerType(t string) bool {
	return t == TypeDiscordBot || t == TypeGameServer || t == TypeWebApp || t == TypeDatabase
}

// Database represents a managed database instance. Declared for the
// dashboard; no creation path exists yet, so per-user listings stay empty.
type Database struct {
	ID        string    `json:"id"         bson:"_id"`
	OwnerID   string    `json:"owner_id"   bson:"owner_id"`
	Name      string    `json:"name"       bson:"name"`
	Engine    string    `json:"engine"     bson:"engine"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CreateServerRequest is the JSON body for POST /api/servers/create.
type CreateServerRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Runtime   string `json:"runtime"`
	Region    string `json:"region"`
	Resources string `json:"resources"`
}
