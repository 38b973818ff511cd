// Command canopen-client performs a single SDO read or write against a
// remote node and prints the result, using a connection profile loaded
// from an INI file via package config.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/b-camacho/canopeners/pkg/can/socketcan"
	"github.com/b-camacho/canopeners/pkg/can/virtual"
	"github.com/b-camacho/canopeners/pkg/config"
	"github.com/b-camacho/canopeners/pkg/sdoclient"
)

func main() {
	log.SetLevel(log.InfoLevel)

	profilePath := flag.String("profile", "", "path to an INI connection profile (overrides -i/-n)")
	iface := flag.String("i", "vcan0", "CAN interface name, or a host:port for a virtual bus")
	nodeID := flag.Int("n", 0x10, "target node ID")
	virtualBus := flag.Bool("virtual", false, "dial the virtual TCP bus instead of SocketCAN")
	op := flag.String("op", "read", "operation: read or write")
	index := flag.String("index", "0x1018", "object index, e.g. 0x1018")
	subIndex := flag.Int("sub", 0, "object subindex")
	data := flag.String("data", "", "hex-encoded bytes to write, e.g. 2a000000")
	flag.Parse()

	profile := config.Profile{
		Interface:    *iface,
		NodeID:       uint8(*nodeID),
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
	if *profilePath != "" {
		loaded, err := config.Load(*profilePath)
		if err != nil {
			log.WithError(err).Fatal("failed to load connection profile")
		}
		profile = loaded
	}

	idx, err := parseIndex(*index)
	if err != nil {
		log.WithError(err).Fatal("invalid -index")
	}

	client, closeFn, err := dial(profile, *virtualBus)
	if err != nil {
		log.WithError(err).Fatal("failed to connect")
	}
	defer closeFn()

	switch *op {
	case "read":
		value, err := client.Read(idx, uint8(*subIndex))
		if err != nil {
			log.WithError(err).Fatal("SDO read failed")
		}
		fmt.Println(hex.EncodeToString(value))
	case "write":
		raw, err := hex.DecodeString(*data)
		if err != nil {
			log.WithError(err).Fatal("invalid -data, expected hex")
		}
		if err := client.Write(idx, uint8(*subIndex), raw); err != nil {
			log.WithError(err).Fatal("SDO write failed")
		}
		log.Info("write ok")
	default:
		log.Fatalf("unknown -op %q, want read or write", *op)
	}
}

func parseIndex(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func dial(profile config.Profile, useVirtual bool) (*sdoclient.Client, func(), error) {
	if useVirtual {
		t, err := virtual.Dial(profile.Interface)
		if err != nil {
			return nil, nil, err
		}
		if err := t.SetReadTimeout(profile.ReadTimeout); err != nil {
			return nil, nil, err
		}
		if err := t.SetWriteTimeout(profile.WriteTimeout); err != nil {
			return nil, nil, err
		}
		return sdoclient.New(t, profile.NodeID), func() { _ = t.Close() }, nil
	}

	t, err := socketcan.Open(profile.Interface)
	if err != nil {
		return nil, nil, err
	}
	if err := t.SetReadTimeout(profile.ReadTimeout); err != nil {
		return nil, nil, err
	}
	if err := t.SetWriteTimeout(profile.WriteTimeout); err != nil {
		return nil, nil, err
	}
	return sdoclient.New(t, profile.NodeID), func() { _ = t.Close() }, nil
}
