// Package core contains the plugin bootstrap contracts, the settings schema
// types and the versioned settings migration engine. Storage, command and job
// adapters depend on this package; core must not depend on them.
package core
