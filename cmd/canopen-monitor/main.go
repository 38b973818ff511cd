// Command canopen-monitor passively sniffs a CAN interface and logs
// every decodable CANopen frame. It is read-only: frames are never
// acknowledged or replied to, so the asynchronous publish/subscribe
// model of brutella/can is a good fit even though the rest of this
// module talks to the bus through the blocking can.Transport contract.
package main

import (
	"flag"

	brutella "github.com/brutella/can"
	log "github.com/sirupsen/logrus"

	"github.com/b-camacho/canopeners/pkg/can"
	"github.com/b-camacho/canopeners/pkg/message"
)

func main() {
	log.SetLevel(log.InfoLevel)
	iface := flag.String("i", "vcan0", "CAN interface name, e.g. can0, vcan0")
	flag.Parse()

	bus, err := brutella.NewBusForInterfaceWithName(*iface)
	if err != nil {
		log.WithError(err).Fatal("failed to open interface")
	}
	bus.SubscribeFunc(logFrame)

	log.WithField("interface", *iface).Info("monitoring CANopen traffic, press ctrl-c to stop")
	if err := bus.ConnectAndPublish(); err != nil {
		log.WithError(err).Fatal("bus closed")
	}
}

func logFrame(raw brutella.Frame) {
	frame, err := can.NewFrame(raw.ID, raw.Data[:raw.Length])
	if err != nil {
		log.WithError(err).WithField("id", raw.ID).Debug("dropping malformed frame")
		return
	}

	msg, err := message.Decode(frame)
	if err != nil {
		log.WithError(err).WithField("id", frame.ID).Debug("dropping undecodable frame")
		return
	}

	entry := log.WithFields(log.Fields{"id": frame.ID, "kind": msg.Kind})
	switch msg.Kind {
	case message.KindNmt:
		entry.WithFields(log.Fields{"function": msg.Nmt.Function, "target": msg.Nmt.TargetNode}).Info("NMT")
	case message.KindSync:
		entry.Info("SYNC")
	case message.KindEmergency:
		entry.WithFields(log.Fields{
			"node": msg.Emergency.NodeID,
			"code": msg.Emergency.ErrorCode,
			"regs": msg.Emergency.ErrorRegister,
		}).Warn("EMCY")
	case message.KindPdo:
		entry.WithFields(log.Fields{
			"node":      msg.Pdo.NodeID,
			"pdo_index": msg.Pdo.PdoIndex,
			"direction": msg.Pdo.Direction,
			"data":      msg.Pdo.Data,
		}).Info("PDO")
	case message.KindSdo:
		entry.WithFields(log.Fields{
			"node":      msg.Sdo.NodeID,
			"direction": msg.Sdo.Direction,
			"sdo_kind":  msg.Sdo.Command.Kind,
		}).Info("SDO")
	case message.KindGuard:
		entry.WithFields(log.Fields{
			"node":  msg.Guard.NodeID,
			"state": msg.Guard.Status.State,
		}).Info("Node Guard")
	default:
		entry.Debug("unhandled message kind")
	}
}
