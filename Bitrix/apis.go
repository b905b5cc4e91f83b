package Bitrix

import (
	"encoding/json"
	"fmt"
)

// Deal is the subset of crm.deal.list fields we read.
type Deal struct {
	ID        string `json:"ID"`
	Title     string `json:"TITLE"`
	StageID   string `json:"STAGE_ID"`
	Comments  string `json:"COMMENTS"`
	AssignedB string `json:"ASSIGNED_BY_ID"`
}

// User is a portal user from user.get.
type User struct {
	ID         string `json:"ID"`
	Name       string `json:"NAME"`
	LastName   string `json:"LAST_NAME"`
	Email      string `json:"EMAIL"`
	WorkonPost string `json:"WORK_POSITION"`
}

// DealApi reads CRM deals.
type DealApi struct {
	client *Client
}

func NewDealApi(client *Client) *DealApi {
	return &DealApi{client: client}
}

// List returns deals matching the filter. filter and sel follow the Bitrix
// REST conventions ("FILTER" keys with comparison prefixes, "SELECT" field
// names).
func (a *DealApi) List(filter map[string]interface{}, sel []string) ([]Deal, error) {
	params := map[string]interface{}{}
	if filter != nil {
		params["filter"] = filter
	}
	if sel != nil {
		params["select"] = sel
	}

	result, err := a.client.Call("crm.deal.list", params)
	if err != nil {
		return nil, err
	}

	var deals []Deal
	if err := json.Unmarshal(result, &deals); err != nil {
		return nil, fmt.Errorf("error unmarshaling deals: %v", err)
	}

	return deals, nil
}

// UserApi reads portal users.
type UserApi struct {
	client *Client
}

func NewUserApi(client *Client) *UserApi {
	return &UserApi{client: client}
}

func (a *UserApi) Get(id string) (*User, error) {
	result, err := a.client.Call("user.get", map[string]interface{}{"ID": id})
	if err != nil {
		return nil, err
	}

	// user.get returns a one-element array
	var users []User
	if err := json.Unmarshal(result, &users); err != nil {
		return nil, fmt.Errorf("error unmarshaling user: %v", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("bitrix user %s not found", id)
	}

	return &users[0], nil
}

// TimelineCommentApi writes timeline comments onto CRM entities.
type TimelineCommentApi struct {
	client *Client
}

func NewTimelineCommentApi(client *Client) *TimelineCommentApi {
	return &TimelineCommentApi{client: client}
}

// Add attaches a comment to the entity identified by (entityID, entityTypeID).
func (a *TimelineCommentApi) Add(entityID, entityTypeID int, comment string) error {
	_, err := a.client.Call("crm.timeline.comment.add", map[string]interface{}{
		"fields": map[string]interface{}{
			"ENTITY_ID":      entityID,
			"ENTITY_TYPE_ID": entityTypeID,
			"COMMENT":        comment,
		},
	})

	return err
}
