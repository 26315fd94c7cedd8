package vault

import (
	"context"
	"fmt"

	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
	vault "github.com/hashicorp/vault/api"
)

// Config는 Vault 클라이언트 설정입니다
type Config struct {
	Address   string
	Token     string
	Namespace string
	MountPath string // KV v2 마운트 경로 (기본 "secret")
}

// Validate는 설정을 검증합니다
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("vault address is required")
	}
	if c.Token == "" {
		return fmt.Errorf("vault token is required")
	}
	return nil
}

// Client는 Vault 클라이언트 래퍼입니다
type Client struct {
	client *vault.Client
	config *Config
}

// NewClient는 새로운 Vault 클라이언트를 생성합니다
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vault config: %w", err)
	}
	if cfg.MountPath == "" {
		cfg.MountPath = "secret"
	}

	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	logger.Info(context.Background(), "vault client initialized",
		logger.Field("address", cfg.Address),
		logger.Field("mount_path", cfg.MountPath),
	)

	return &Client{client: client, config: cfg}, nil
}

// GetKVSecret은 KV v2 시크릿을 읽습니다
func (c *Client) GetKVSecret(ctx context.Context, path string) (map[string]interface{}, error) {
	secret, err := c.client.KVv2(c.config.MountPath).Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret %q: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret %q not found", path)
	}
	return secret.Data, nil
}
