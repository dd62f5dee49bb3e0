// The embedded JSON document is the default pattern bundle covering the
// list-management providers observed across ward newsletters (Mailchimp,
// Constant Contact, SparkPost). Deployments override it with
// --pattern-file without rebuilding.
package privacy

import _ "embed"

//go:embed patterns.json
var defaultPatternsJSON []byte
