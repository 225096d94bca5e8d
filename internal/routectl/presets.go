package routectl

import "sort"

// Preset carries the backend defaults for the services this host setup
// usually fronts. Picking one prefills the prompts; every value can still
// be changed interactively.
type Preset struct {
	Name        string
	Description string
	Port        int
	Protocol    Protocol
	Upgrade     bool
}

var PresetCatalog = map[string]Preset{
	"n8n": {
		Name:        "n8n",
		Description: "n8n workflow automation (editor uses websockets)",
		Port:        5678,
		Protocol:    ProtocolHTTP,
		Upgrade:     true,
	},
	"directus": {
		Name:        "directus",
		Description: "Directus headless CMS",
		Port:        8055,
		Protocol:    ProtocolHTTP,
		Upgrade:     false,
	},
	"waha": {
		Name:        "waha",
		Description: "WAHA WhatsApp HTTP API (session events over websockets)",
		Port:        3000,
		Protocol:    ProtocolHTTP,
		Upgrade:     true,
	},
}

func SortedPresetNames() []string {
	names := make([]string, 0, len(PresetCatalog))
	for name := range PresetCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
