package sim

// SendError marks a failed send or delivery, caused by a full buffer on the
// other side. The sender should retry in a later cycle.
type SendError struct{}

// NewSendError creates a SendError.
func NewSendError() *SendError {
	return new(SendError)
}

// A Connection transfers messages between the ports plugged into it.
type Connection interface {
	Named
	Hookable

	// PlugIn attaches a port to the connection.
	PlugIn(port Port)

	// Unplug detaches a port.
	Unplug(port Port)

	// NotifyAvailable is called by a port when its previously full incoming
	// buffer can accept messages again.
	NotifyAvailable(port Port)

	// NotifySend is called by a port when a message is queued in its
	// outgoing buffer, so the connection can start moving it.
	NotifySend()
}

// HookPosConnStartSend marks that a connection accepted a message to send.
var HookPosConnStartSend = &HookPos{Name: "Conn Start Send"}

// HookPosConnStartTrans marks that a connection started transmitting.
var HookPosConnStartTrans = &HookPos{Name: "Conn Start Trans"}

// HookPosConnDoneTrans marks that a connection completed a transmission.
var HookPosConnDoneTrans = &HookPos{Name: "Conn Done Trans"}

// HookPosConnDeliver marks that a connection delivered a message.
var HookPosConnDeliver = &HookPos{Name: "Conn Deliver"}
