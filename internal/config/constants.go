package config

// Base application details
const AppName = "mirror"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "mirror.log"

// UI Layout
const StatusBarHeight = 1
const MinPanes = 1
const MaxPanes = 4

// These could be moved to NewDefaultConfig(), keeping here for now
const DefaultPanes = 2
const DefaultTabWidth = 4
const DefaultMaxHistory = 100
const SystemClipboard = true

// Relay defaults
const DefaultDocument = "default"
const DefaultListenAddr = "127.0.0.1:7878"
