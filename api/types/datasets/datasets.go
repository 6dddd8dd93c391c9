package datasets

import (
	"fmt"

	"github.com/framehubio/framehub/api/types/misc/rfctime"
)

type Summary struct {
	Id        int             `json:"id"`
	ProjectId int             `json:"projectId"`
	Name      string          `json:"name"`
	CreatedAt rfctime.RFC3339 `json:"createdAt"`
	ItemCount int             `json:"itemCount"`
}

func (s Summary) Equal(o Summary) bool {
	return s.Id == o.Id &&
		s.ProjectId == o.ProjectId &&
		s.Name == o.Name &&
		s.CreatedAt.Equal(o.CreatedAt) &&
		s.ItemCount == o.ItemCount
}

// Spec is a request to create a dataset.
type Spec struct {
	ProjectId   int    `json:"projectId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (s Spec) Validate() error {
	if s.ProjectId <= 0 {
		return fmt.Errorf("dataset needs a project")
	}
	if s.Name == "" {
		return fmt.Errorf("dataset name is required")
	}
	return nil
}
