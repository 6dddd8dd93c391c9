package workspaces

import "github.com/framehubio/framehub/api/types/misc/rfctime"

type Summary struct {
	Id        int             `json:"id"`
	Name      string          `json:"name"`
	CreatedAt rfctime.RFC3339 `json:"createdAt"`
}

func (s Summary) Equal(o Summary) bool {
	return s.Id == o.Id &&
		s.Name == o.Name &&
		s.CreatedAt.Equal(o.CreatedAt)
}
