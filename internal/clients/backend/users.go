package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/samandr77/microservices/condo/internal/entity"
)

const usersPath = "/authz/usuarios/"

// maxRosterPages bounds how many `next` links Users follows.
const maxRosterPages = 200

// Users fetches the whole roster. The backend answers either with a bare list
// or with a paginated envelope whose `next` links are followed until null.
func (c *Client) Users(ctx context.Context, s entity.Session) ([]entity.User, error) {
	users := []entity.User{}
	seen := make(map[string]bool)

	for path := usersPath; path != ""; {
		if seen[path] || len(seen) == maxRosterPages {
			return nil, fmt.Errorf("%w: roster pagination does not end at %s", entity.ErrRemote, path)
		}

		seen[path] = true

		req, err := c.newRequest(ctx, s, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		body, _, err := c.do(req)
		if err != nil {
			return nil, err
		}

		page, next, err := decodeRoster(body)
		if err != nil {
			return nil, fmt.Errorf("unmarshal roster: %w", err)
		}

		users = append(users, page...)

		path, err = c.pagePath(next)
		if err != nil {
			return nil, err
		}
	}

	return users, nil
}

func decodeRoster(body []byte) ([]entity.User, string, error) {
	body = bytes.TrimSpace(body)

	if len(body) != 0 && body[0] == '[' {
		var users []entity.User

		err := json.Unmarshal(body, &users)

		return users, "", err
	}

	var page struct {
		Next    string        `json:"next"`
		Results []entity.User `json:"results"`
	}

	err := json.Unmarshal(body, &page)
	if err != nil {
		return nil, "", err
	}

	return page.Results, page.Next, nil
}

// pagePath turns a `next` link into a path under baseURL. The link may be
// absolute or relative; only its path and query are kept so the token is
// never sent to another host.
func (c *Client) pagePath(next string) (string, error) {
	if next == "" {
		return "", nil
	}

	u, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("%w: bad roster page link %q: %w", entity.ErrRemote, next, err)
	}

	p := u.EscapedPath()

	if base, err := url.Parse(c.baseURL); err == nil && base.Path != "" {
		p = strings.TrimPrefix(p, strings.TrimRight(base.EscapedPath(), "/"))
	}

	if p == "" {
		p = usersPath
	}

	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}

	return p, nil
}

// PatchUser sends a partial update and returns the record as stored by the
// backend. When the backend answers without a body only the id is filled.
func (c *Client) PatchUser(ctx context.Context, s entity.Session, id int64, upd entity.ProfileUpdate) (entity.User, error) {
	user := entity.User{ID: id}

	err := c.doJSON(ctx, s, http.MethodPatch, fmt.Sprintf("%s%d/", usersPath, id), upd, &user)
	if err != nil {
		return entity.User{}, err
	}

	return user, nil
}
