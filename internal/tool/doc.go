// Package tool defines the uniform ABI every environment tool obeys.
//
// A tool is one domain operation: it validates its named arguments, checks
// references and policy against the shared store, mutates the store in
// place, and returns a JSON-encoded envelope string. Its Descriptor is the
// static function-calling schema the agent harness consumes.
//
// Two envelope shapes coexist in the corpus and both are legal: the
// success/failure envelope ({"success": true, ...} / {"success": false,
// "error": ...}) and the bare-record envelope (the created or updated
// record on success). A tool must be internally consistent about which
// shape it uses; the task runner treats both as opaque JSON.
package tool
