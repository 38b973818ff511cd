// Package config loads connection profiles for the example CLI tools
// from an INI file: which interface to open, which node to talk to,
// and the timeouts to apply before starting an SDO transfer.
package config

import (
	"time"

	"gopkg.in/ini.v1"
)

// Profile describes one named connection to a CANopen node.
type Profile struct {
	Interface    string
	NodeID       uint8
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const defaultSectionName = "connection"

// Load parses path as an INI file with a single [connection] section:
//
//	[connection]
//	interface = can0
//	node_id = 10
//	read_timeout_ms = 1000
//	write_timeout_ms = 1000
func Load(path string) (Profile, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Profile{}, err
	}
	section := cfg.Section(defaultSectionName)
	profile := Profile{
		Interface:    section.Key("interface").MustString("can0"),
		NodeID:       uint8(section.Key("node_id").MustInt(1)),
		ReadTimeout:  time.Duration(section.Key("read_timeout_ms").MustInt(1000)) * time.Millisecond,
		WriteTimeout: time.Duration(section.Key("write_timeout_ms").MustInt(1000)) * time.Millisecond,
	}
	return profile, nil
}
