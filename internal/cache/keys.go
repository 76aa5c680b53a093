package cache

// Namespaces del Session Store.
const (
	RefreshPrefix = "refresh:"
	TempPrefix    = "temp:"
	StatePrefix   = "state:"
)

// RefreshKey: refresh token activo del usuario (uno por usuario).
func RefreshKey(userID string) string { return RefreshPrefix + userID }

// TempKey: temporary token -> access token, single-use.
func TempKey(handle string) string { return TempPrefix + handle }

// StateKey: state del handshake OAuth2 -> provider, single-use.
func StateKey(handle string) string { return StatePrefix + handle }
