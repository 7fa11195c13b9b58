// marks-portal/internal/marks/merge.go
package marks

import "errors"

// Cap — верхняя граница суммарной оценки по предмету.
const Cap = 100

// ErrCapExceeded возвращается, когда сумма оценок превышает Cap.
var ErrCapExceeded = errors.New("Total marks cannot exceed 100")

// Merge is the additive business rule of the portal: re-submitting marks
// for a known (name, subject) pair accumulates on top of the stored total
// instead of replacing it. The stored record stays untouched when the sum
// would exceed Cap.
func Merge(existingMarks, incomingMarks int) (int, error) {
	total := existingMarks + incomingMarks
	if total > Cap {
		return 0, ErrCapExceeded
	}
	return total, nil
}
