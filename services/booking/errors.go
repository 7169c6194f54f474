package booking

import (
	"fmt"

	"groundbook/utils"
)

// NotePaymentNotRecorded is written to a booking cancelled because its payment insert failed.
const NotePaymentNotRecorded = "payment could not be recorded"

func invalidStatus(s string) error {
	return utils.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown booking status %q", s)}
}
