package tcp

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/haroontrailblazer/College-Departments-Portal/internal"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/core/stats"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/department"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/entry"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/protocol"
)

// session is the per-connection state machine. It starts unauthenticated;
// a successful login binds the department identity, and any terminal
// condition (disconnect action, idle timeout, socket failure) ends it.
// Requests are handled strictly one at a time.
type session struct {
	id   string
	conn net.Conn
	dec  *protocol.Decoder
	enc  *protocol.Encoder

	readTimeout time.Duration

	// identity is nil until a login succeeds; its presence is the
	// authenticated state.
	identity *department.Info

	auth     Authenticator
	entries  EntryAPI
	reports  Reporter
	counters *stats.Counters
	activity ActivityLogger
	logger   *slog.Logger
}

func (s *session) run() {
	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			s.logger.Error("set read deadline failed", "error", err)
			return
		}

		var req protocol.Request
		err := s.dec.Decode(&req)
		if err != nil {
			if !s.handleReadError(err) {
				return
			}
			continue
		}

		resp, stop := s.handle(&req)
		if resp != nil {
			if err := s.writeResponse(*resp); err != nil {
				s.logger.Error("response write failed", "error", err)
				return
			}
		}
		if stop {
			return
		}
	}
}

// handleReadError reports whether the session can continue. Malformed
// messages get an error response and the connection stays open; timeouts
// and socket failures end the session.
func (s *session) handleReadError(err error) bool {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		s.activity.Info(fmt.Sprintf("Client %s timed out after %s", s.conn.RemoteAddr(), s.readTimeout))
		return false
	case errors.Is(err, protocol.ErrMalformedMessage):
		if werr := s.writeResponse(protocol.Error("Invalid JSON format")); werr != nil {
			s.logger.Error("response write failed", "error", werr)
			return false
		}
		return true
	case errors.Is(err, io.EOF):
		return false
	default:
		s.activity.Info(fmt.Sprintf("Client %s disconnected unexpectedly", s.conn.RemoteAddr()))
		return false
	}
}

// handle dispatches one request. A nil response with stop=true is a silent
// close (the disconnect action).
func (s *session) handle(req *protocol.Request) (*protocol.Response, bool) {
	switch req.Action {
	case protocol.ActionLogin:
		return s.handleLogin(req), false
	case protocol.ActionSubmitData:
		return s.handleSubmit(req), false
	case protocol.ActionGetRecent:
		return s.handleGetRecent(req), false
	case protocol.ActionExportCSV:
		return s.handleExport(), false
	case protocol.ActionGetStats:
		return s.handleGetStats(), false
	case protocol.ActionDisconnect:
		return nil, true
	default:
		return errorResponse(internal.ErrInvalidAction), false
	}
}

func (s *session) handleLogin(req *protocol.Request) *protocol.Response {
	if s.identity != nil {
		return errorResponse(internal.ErrInvalidAction)
	}

	info, err := s.auth.Authenticate(req.Email, req.Password)
	if err != nil {
		return errorResponse(err)
	}

	s.identity = info
	s.logger.Info("session authenticated", "dept_name", info.DeptName)

	resp := protocol.Success(fmt.Sprintf("Welcome %s!", info.DeptName))
	resp.DeptInfo = info
	return &resp
}

func (s *session) handleSubmit(req *protocol.Request) *protocol.Response {
	if s.identity == nil {
		return errorResponse(internal.ErrInvalidAction)
	}

	dto := entry.SubmitDTO{EntryType: req.EntryType, DataContent: req.DataContent}
	result, err := s.entries.Submit(s.identity.DeptID, dto)
	if err != nil {
		s.activity.Info(fmt.Sprintf("Data submission failed: %v", err))
		return errorResponse(err)
	}

	s.counters.EntrySaved()
	s.activity.Info(fmt.Sprintf("Data submission successful: %s by %s", dto.EntryType, s.identity.DeptName))

	resp := protocol.Success(fmt.Sprintf(
		"Data saved successfully! Entry ID: %d. CSV export completed for data analysis.", result.EntryID))
	resp.EntryID = result.EntryID
	resp.DeptName = result.DeptName
	return &resp
}

func (s *session) handleGetRecent(req *protocol.Request) *protocol.Response {
	if s.identity == nil {
		return errorResponse(internal.ErrInvalidAction)
	}

	data, err := s.entries.Recent(req.Limit)
	if err != nil {
		return errorResponse(err)
	}
	if data == nil {
		data = []entry.SummaryResponse{}
	}

	resp := protocol.Response{Status: protocol.StatusSuccess, Data: &data}
	return &resp
}

func (s *session) handleExport() *protocol.Response {
	if s.identity == nil {
		return errorResponse(internal.ErrInvalidAction)
	}

	filename, err := s.reports.FormattedReport()
	if err != nil {
		s.logger.Error("formatted report failed", "error", err)
		resp := protocol.Error("Export failed")
		return &resp
	}

	resp := protocol.Success(fmt.Sprintf("Enhanced report exported to %s", filename))
	resp.Filename = filename
	return &resp
}

func (s *session) handleGetStats() *protocol.Response {
	if s.identity == nil {
		return errorResponse(internal.ErrInvalidAction)
	}

	snapshot := s.counters.Snapshot()
	return &protocol.Response{Status: protocol.StatusSuccess, Stats: &snapshot}
}

func (s *session) writeResponse(resp protocol.Response) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.readTimeout)); err != nil {
		return err
	}
	return s.enc.Encode(resp)
}

// errorResponse converts any per-request error into a protocol error
// response. AppError messages are client-safe; anything else is masked.
func errorResponse(err error) *protocol.Response {
	if appErr, ok := internal.IsAppError(err); ok {
		resp := protocol.Error(appErr.Message)
		return &resp
	}
	resp := protocol.Error("System error")
	return &resp
}
