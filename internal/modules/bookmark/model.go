// README: Bookmark model. A user's bookmarks are a label → location mapping.
package bookmark

import "errors"

var (
	ErrNotFound      = errors.New("bookmark not found")
	ErrEmptyLocation = errors.New("bookmark location is empty")
)

type Entry struct {
	Label    string `json:"label"`
	Location string `json:"location"`
}
