package daemon

import (
	"context"
	"fmt"

	"numpadd/internal/backlight"
	"numpadd/internal/ipc"
)

// Handler adapts the daemon to the control socket. Requests that
// mutate state are forwarded to the run loop; reads are answered in
// place.
type Handler struct {
	d        *Daemon
	shutdown context.CancelFunc
}

// NewHandler creates the control socket handler. shutdown is invoked
// on a shutdown request and is expected to cancel the run loop's
// context.
func NewHandler(d *Daemon, shutdown context.CancelFunc) *Handler {
	return &Handler{d: d, shutdown: shutdown}
}

// HandleMessage implements ipc.Handler.
func (h *Handler) HandleMessage(ctx context.Context, msg *ipc.Message) (*ipc.Message, error) {
	id := msg.Header.RequestID

	switch msg.Header.Type {
	case ipc.MsgPing:
		return ipc.NewMessage(ipc.MsgPong, id, nil), nil

	case ipc.MsgStatusRequest:
		st, err := h.d.Status(ctx)
		if err != nil {
			return nil, err
		}
		return ipc.Marshal(ipc.MsgStatusResponse, id, st)

	case ipc.MsgSetMode:
		var req ipc.SetModeRequest
		if err := ipc.Unmarshal(msg, &req); err != nil {
			return nil, err
		}
		switch req.Mode {
		case "on", "off", "toggle":
		default:
			return nil, fmt.Errorf("unknown mode %q", req.Mode)
		}
		res, err := h.d.request(ctx, controlOp{mode: req.Mode})
		if err != nil {
			return nil, err
		}
		return ipc.Marshal(ipc.MsgSetModeResp, id, ipc.SetModeResponse{KeypadOn: res.keypadOn})

	case ipc.MsgSetBrightness:
		var req ipc.SetBrightnessRequest
		if err := ipc.Unmarshal(msg, &req); err != nil {
			return nil, err
		}
		level, err := backlight.ParseLevel(req.Level)
		if err != nil {
			return nil, err
		}
		res, err := h.d.request(ctx, controlOp{level: level, setLevel: true})
		if err != nil {
			return nil, err
		}
		return ipc.Marshal(ipc.MsgSetBrightnessResp, id, ipc.SetBrightnessResponse{Level: res.level.String()})

	case ipc.MsgShutdown:
		h.shutdown()
		return ipc.NewMessage(ipc.MsgOK, id, nil), nil

	default:
		return nil, fmt.Errorf("unhandled message type %#04x", uint16(msg.Header.Type))
	}
}
