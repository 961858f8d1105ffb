package service

// Code classifies the outcome of an engine operation.  Every operation
// reports domain failures through a Result with OK=false; Go errors are
// reserved for storage failures.
type Code string

const (
	CodeOK               Code = "ok"
	CodeInvalidSeat      Code = "invalid_seat"
	CodeAlreadyBooked    Code = "already_booked"
	CodeNotBooked        Code = "not_booked"
	CodeNoSuitableSeat   Code = "no_suitable_seat"
	CodeInvalidGroupSize Code = "invalid_group_size"
	CodeFeatureDisabled  Code = "feature_disabled"
)

// Result is returned by Book, Cancel, AutoAssign and FindAdjacentGroup.
// SeatID is set by a successful AutoAssign (and echoes the target of Book
// and Cancel); Seats is set by a successful FindAdjacentGroup.
type Result struct {
	OK      bool     `json:"ok"`
	Code    Code     `json:"code"`
	Message string   `json:"message"`
	SeatID  string   `json:"seat_id,omitempty"`
	Seats   []string `json:"seats,omitempty"`
}

func success(msg string) Result { return Result{OK: true, Code: CodeOK, Message: msg} }

func failure(code Code, msg string) Result { return Result{Code: code, Message: msg} }
