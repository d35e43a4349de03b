package settings

import "github.com/nerrad567/dcs-inspector-core/internal/infrastructure/config"

// DefaultGlobal builds the global-settings seed used before the host has
// answered the first getGlobalSettings request. Empty values are left out
// so they never shadow a value another inspector already stored.
func DefaultGlobal(d config.DefaultsConfig) Record {
	out := Record{}
	put := func(field, v string) {
		if v != "" {
			out[field] = v
		}
	}
	put(GlobalIPAddress, d.IPAddress)
	put(GlobalListenerPort, d.ListenerPort)
	put(GlobalSendPort, d.SendPort)
	put(GlobalInstallPath, d.InstallPath)
	put(GlobalSavedGamesPath, d.SavedGamesPath)
	put(GlobalLastModule, d.LastModule)
	put(GlobalLastSearchQuery, d.LastSearchQuery)
	return out
}
