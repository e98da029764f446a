// Package infra contains technical adapters: state stores, MQTT
// publishing, metrics exporters and terminal prompts. These packages
// depend only on the interfaces defined in the core packages.
package infra
