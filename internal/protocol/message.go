package protocol

import (
	"github.com/haroontrailblazer/College-Departments-Portal/internal/core/stats"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/department"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/entry"
)

// Actions a client may request. The action field of every request selects
// one of these.
const (
	ActionLogin      = "login"
	ActionSubmitData = "submit_data"
	ActionGetRecent  = "get_recent"
	ActionExportCSV  = "export_csv"
	ActionGetStats   = "get_stats"
	ActionDisconnect = "disconnect"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request is the union of all request shapes; Action decides which fields
// are meaningful.
type Request struct {
	Action      string `json:"action"`
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
	EntryType   string `json:"entry_type,omitempty"`
	DataContent string `json:"data_content,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// Response is the union of all response shapes. Status is always set;
// everything else is action-specific. Data is a pointer so a get_recent
// success always carries "data", as an empty array when nothing matched,
// while other actions omit the key.
type Response struct {
	Status   string                   `json:"status"`
	Message  string                   `json:"message,omitempty"`
	DeptInfo *department.Info         `json:"dept_info,omitempty"`
	EntryID  int64                    `json:"entry_id,omitempty"`
	DeptName string                   `json:"dept_name,omitempty"`
	Data     *[]entry.SummaryResponse `json:"data,omitempty"`
	Filename string                   `json:"filename,omitempty"`
	Stats    *stats.Snapshot          `json:"stats,omitempty"`
}

func Success(message string) Response {
	return Response{Status: StatusSuccess, Message: message}
}

func Error(message string) Response {
	return Response{Status: StatusError, Message: message}
}
