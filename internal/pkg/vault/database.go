package vault

import (
	"context"
	"fmt"
)

// DatabaseCredentials는 데이터베이스 자격증명입니다
type DatabaseCredentials struct {
	Username string
	Password string
}

// GetDatabaseCredentials는 KV 시크릿에서 데이터베이스 자격증명을 가져옵니다.
// 시크릿에는 username/password 키가 있어야 합니다
func (c *Client) GetDatabaseCredentials(ctx context.Context, path string) (*DatabaseCredentials, error) {
	data, err := c.GetKVSecret(ctx, path)
	if err != nil {
		return nil, err
	}

	username, ok := data["username"].(string)
	if !ok || username == "" {
		return nil, fmt.Errorf("secret %q missing username", path)
	}
	password, ok := data["password"].(string)
	if !ok || password == "" {
		return nil, fmt.Errorf("secret %q missing password", path)
	}

	return &DatabaseCredentials{
		Username: username,
		Password: password,
	}, nil
}
