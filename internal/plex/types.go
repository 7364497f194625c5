package plex

import "runtime"

// Library is one library section on the Plex server.
type Library struct {
	Key   string
	Title string
}

// Collection is one collection within a library. RatingKey is the
// server's opaque per-entity identifier.
type Collection struct {
	RatingKey string
	Title     string
}

// Poster is one candidate poster image for a collection. At most one
// poster carries Selected at a time.
type Poster struct {
	Key      string
	Selected bool
}

// Identity is the set of X-Plex-* client identity headers sent with
// every request. The identifier must stay stable across restarts or
// the server registers each run as a new device.
type Identity struct {
	Identifier string
	Product    string
	Version    string
	Device     string
	DeviceName string
	Platform   string
}

// DefaultIdentity returns the identity headers used when the caller has
// no overrides. version is the application version; deviceName is the
// host this client runs on.
func DefaultIdentity(version, deviceName string) Identity {
	return Identity{
		Identifier: "plex-collection-poster-sync",
		Product:    "Plex Collection Poster Sync",
		Version:    version,
		Device:     runtime.GOOS,
		DeviceName: deviceName,
		Platform:   runtime.GOOS,
	}
}
