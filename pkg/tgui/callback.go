package tgui

import "strings"

// Data formats inline callback data as "plugin:action:payload".
// Payload is kept as-is (no escaping).
func Data(plugin, action, payload string) string {
	plugin = strings.TrimSpace(plugin)
	action = strings.TrimSpace(action)
	if payload == "" {
		return plugin + ":" + action
	}
	return plugin + ":" + action + ":" + payload
}
