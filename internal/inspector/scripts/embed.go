// Package scripts holds the in-page extraction scripts evaluated by the site inspector.
package scripts

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

var (
	//go:embed metadata.js
	MetadataJS string

	//go:embed colors.js
	ColorsJS string

	//go:embed fonts.js
	FontsJS string

	//go:embed logos.js
	logosJS string
)

// LogosJS returns the logo script bound to the given selector list.
func LogosJS(selectors []string) string {
	arg, _ := json.Marshal(selectors)
	return fmt.Sprintf(logosJS, arg)
}
