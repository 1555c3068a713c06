package sim

import "reflect"

// A Msg is a piece of information transferred between components.
type Msg interface {
	Meta() *MsgMeta
	Clone() Msg
}

// MsgMeta is the metadata attached to every message.
type MsgMeta struct {
	ID           string
	Src, Dst     RemotePort
	TrafficClass string
	TrafficBytes int
}

// Rsp is a message that concludes an earlier request.
type Rsp interface {
	Msg

	// GetRspTo returns the ID of the request the response concludes.
	GetRspTo() string
}

// GeneralRsp acknowledges an arbitrary request message.
type GeneralRsp struct {
	MsgMeta

	OriginalReq Msg
}

// Meta returns the metadata of the message.
func (r *GeneralRsp) Meta() *MsgMeta {
	return &r.MsgMeta
}

// Clone returns a copy of the response with a fresh ID.
func (r *GeneralRsp) Clone() Msg {
	cloned := *r
	cloned.ID = GetIDGenerator().Generate()

	return &cloned
}

// GetRspTo returns the ID of the original request.
func (r *GeneralRsp) GetRspTo() string {
	return r.OriginalReq.Meta().ID
}

// GeneralRspBuilder builds GeneralRsp messages.
type GeneralRspBuilder struct {
	Src, Dst     RemotePort
	TrafficBytes int
	OriginalReq  Msg
}

// WithSrc sets the source port of the response.
func (c GeneralRspBuilder) WithSrc(src RemotePort) GeneralRspBuilder {
	c.Src = src
	return c
}

// WithDst sets the destination port of the response.
func (c GeneralRspBuilder) WithDst(dst RemotePort) GeneralRspBuilder {
	c.Dst = dst
	return c
}

// WithTrafficBytes sets the number of bytes the response occupies on the
// interconnect.
func (c GeneralRspBuilder) WithTrafficBytes(bytes int) GeneralRspBuilder {
	c.TrafficBytes = bytes
	return c
}

// WithOriginalReq sets the request the response concludes.
func (c GeneralRspBuilder) WithOriginalReq(req Msg) GeneralRspBuilder {
	c.OriginalReq = req
	return c
}

// Build creates the response message.
func (c GeneralRspBuilder) Build() *GeneralRsp {
	return &GeneralRsp{
		MsgMeta: MsgMeta{
			ID:           GetIDGenerator().Generate(),
			Src:          c.Src,
			Dst:          c.Dst,
			TrafficClass: reflect.TypeOf(GeneralRsp{}).String(),
			TrafficBytes: c.TrafficBytes,
		},
		OriginalReq: c.OriginalReq,
	}
}
