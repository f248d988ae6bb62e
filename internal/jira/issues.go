package jira

import (
	"context"
	"fmt"
	"net/url"
)

// Me verifies authentication and returns the current user.
func (c *Client) Me(ctx context.Context) (*Myself, error) {
	var me Myself
	if err := c.Get(ctx, "/rest/api/2/myself", &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// GetIssue fetches a single issue by key. The fields slice limits the
// returned fields; pass nil for all fields.
func (c *Client) GetIssue(
	ctx context.Context,
	key string,
	fields []string,
) (*Issue, error) {
	path := "/rest/api/2/issue/" + url.PathEscape(key)
	if len(fields) > 0 {
		query := url.Values{}
		for _, field := range fields {
			query.Add("fields", field)
		}
		path += "?" + query.Encode()
	}

	var issue Issue
	if err := c.Get(ctx, path, &issue); err != nil {
		return nil, fmt.Errorf("fetching issue %s: %w", key, err)
	}
	return &issue, nil
}

// searchRequest is the body of POST /rest/api/2/search.
type searchRequest struct {
	JQL        string   `json:"jql"`
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields,omitempty"`
}

// SearchIssues runs a JQL query and pages through all results.
func (c *Client) SearchIssues(
	ctx context.Context,
	jql string,
	fields []string,
) ([]Issue, error) {
	const pageSize = 100

	var issues []Issue
	startAt := 0
	for {
		var page SearchResponse
		req := searchRequest{
			JQL:        jql,
			StartAt:    startAt,
			MaxResults: pageSize,
			Fields:     fields,
		}
		if err := c.Post(ctx, "/rest/api/2/search", req, &page); err != nil {
			return nil, fmt.Errorf("searching issues: %w", err)
		}

		issues = append(issues, page.Issues...)
		startAt += len(page.Issues)
		if startAt >= page.Total || len(page.Issues) == 0 {
			break
		}
	}

	return issues, nil
}

// CreateIssue creates a new issue with the given field map and returns
// its key. The fields map mirrors the REST payload's "fields" object.
func (c *Client) CreateIssue(
	ctx context.Context,
	fields map[string]interface{},
) (string, error) {
	body := map[string]interface{}{"fields": fields}

	var created CreateResponse
	if err := c.Post(ctx, "/rest/api/2/issue", body, &created); err != nil {
		return "", fmt.Errorf("creating issue: %w", err)
	}
	return created.Key, nil
}

// AssignIssue sets the assignee of an issue by Jira username.
func (c *Client) AssignIssue(
	ctx context.Context,
	key string,
	username string,
) error {
	path := "/rest/api/2/issue/" + url.PathEscape(key) + "/assignee"
	body := map[string]interface{}{"name": username}
	if err := c.Put(ctx, path, body, nil); err != nil {
		return fmt.Errorf("assigning issue %s to %s: %w", key, username, err)
	}
	return nil
}

// UpdateIssue applies a partial field update to an issue.
func (c *Client) UpdateIssue(
	ctx context.Context,
	key string,
	fields map[string]interface{},
) error {
	path := "/rest/api/2/issue/" + url.PathEscape(key)
	body := map[string]interface{}{"fields": fields}
	if err := c.Put(ctx, path, body, nil); err != nil {
		return fmt.Errorf("updating issue %s: %w", key, err)
	}
	return nil
}

// LinkIssues creates a typed link between two issues, with the named
// link type pointing outward from inwardKey to outwardKey.
func (c *Client) LinkIssues(
	ctx context.Context,
	linkType string,
	inwardKey string,
	outwardKey string,
) error {
	body := map[string]interface{}{
		"type":         map[string]string{"name": linkType},
		"inwardIssue":  map[string]string{"key": inwardKey},
		"outwardIssue": map[string]string{"key": outwardKey},
	}
	if err := c.Post(ctx, "/rest/api/2/issueLink", body, nil); err != nil {
		return fmt.Errorf(
			"linking %s to %s (%s): %w",
			inwardKey, outwardKey, linkType, err,
		)
	}
	return nil
}

// LinkToEpic attaches an issue to an epic. It first tries the epic link
// custom field, then an "Epic-Story Link" issue link, then a plain
// "Relates" link so the relationship is at least visible.
func (c *Client) LinkToEpic(
	ctx context.Context,
	issueKey string,
	epicKey string,
	epicLinkField string,
) error {
	if epicLinkField != "" {
		fields := map[string]interface{}{epicLinkField: epicKey}
		if err := c.UpdateIssue(ctx, issueKey, fields); err == nil {
			return nil
		}
	}

	if err := c.LinkIssues(ctx, "Epic-Story Link", epicKey, issueKey); err == nil {
		return nil
	}

	if err := c.LinkIssues(ctx, "Relates", issueKey, epicKey); err != nil {
		return fmt.Errorf(
			"linking %s to epic %s: %w", issueKey, epicKey, err,
		)
	}
	return nil
}

// ListFields returns all field definitions known to the instance.
func (c *Client) ListFields(ctx context.Context) ([]Field, error) {
	var fields []Field
	if err := c.Get(ctx, "/rest/api/2/field", &fields); err != nil {
		return nil, fmt.Errorf("listing fields: %w", err)
	}
	return fields, nil
}

// GetSprint fetches a sprint by its numeric id via the Agile API.
func (c *Client) GetSprint(ctx context.Context, id int) (*Sprint, error) {
	path := fmt.Sprintf("/rest/agile/1.0/sprint/%d", id)

	var sprint Sprint
	if err := c.Get(ctx, path, &sprint); err != nil {
		return nil, fmt.Errorf("fetching sprint %d: %w", id, err)
	}
	return &sprint, nil
}
