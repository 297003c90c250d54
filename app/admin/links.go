package admin

import (
	"fmt"
	"html"
	"reflect"

	"github.com/mytheresa/content-portal/models"
)

// Empty is shown in place of an absent related object.
const Empty = "-"

// LinkRenderable is a related object that has an admin change page.
type LinkRenderable interface {
	AdminURL() string
	AdminLabel() string
}

type Link struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// RelatedLink returns a Link to obj, or Empty when obj is nil or a nil pointer.
func RelatedLink(obj LinkRenderable) any {
	if isNil(obj) {
		return Empty
	}
	return Link{URL: obj.AdminURL(), Label: obj.AdminLabel()}
}

// ImageTag renders img as an HTML img element, or "" when there is no image.
func ImageTag(img models.Image) string {
	if img.IsZero() {
		return ""
	}
	return fmt.Sprintf(`<img src="%s" width="%d" height="%d" />`, html.EscapeString(img.URL), img.Width, img.Height)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
