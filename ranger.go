// Package ranger generates projects from templates.
package ranger

// Version is the CLI version reported by "ranger --version".
const Version = "0.1.0"
