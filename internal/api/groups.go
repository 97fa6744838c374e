package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type GroupChild struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (c GroupChild) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type DaycareGroup struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Children    []GroupChild `json:"children"`
}

// GroupsForDaycare returns every department with its children nested.
func (c *Client) GroupsForDaycare(ctx context.Context, daycareID int64) ([]DaycareGroup, error) {
	var out []DaycareGroup
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/daycare-groups/daycare/%d", daycareID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
