package common

import "strings"

// GetAccountFromArgs returns the "account" argument of a tool call. An empty
// string means the tool applies to every configured account.
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok {
		return strings.TrimSpace(accountVal)
	}
	return ""
}
