package config

var defaults = map[string]any{
	"log_level": "info",

	"base_url": "http://localhost:8080",

	"admin_networks": "",

	"email.host":     "",
	"email.port":     25,
	"email.username": "",
	"email.password": "",
	"email.from":     "vpn-portal@noreply.local",

	"storage.sqlite.path": "./vpn_portal.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
