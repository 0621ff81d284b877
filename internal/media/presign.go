// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rinkside/rinkside/internal/config"
	"github.com/rinkside/rinkside/internal/logging"
	"github.com/rinkside/rinkside/internal/models"
)

// maxSignedURLTTL is the hard cap on presigned asset URLs.
const maxSignedURLTTL = 60 * time.Minute

// Signer generates short-lived asset URLs. When a CDN domain is configured
// the signed host is rewritten so bytes are served from the edge.
type Signer struct {
	presign   *s3.PresignClient
	bucket    string
	cdnDomain string
	ttl       time.Duration
}

// NewSigner builds a signer from the media configuration. The S3 endpoint
// override supports any S3-interoperable store.
func NewSigner(ctx context.Context, cfg config.MediaConfig) (*Signer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
			o.UsePathStyle = true
		}
	})

	ttl := cfg.SignedURLTTL
	if ttl <= 0 || ttl > maxSignedURLTTL {
		ttl = maxSignedURLTTL
	}
	return &Signer{
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		cdnDomain: cfg.CDNDomain,
		ttl:       ttl,
	}, nil
}

// SignAsset fills in the asset's signed URL. Assets whose storage URI does
// not point into the bucket are left unsigned.
func (s *Signer) SignAsset(ctx context.Context, asset *models.ClipAsset) error {
	key := s.objectKey(asset.StorageURI)
	if key == "" {
		return nil
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return fmt.Errorf("presign %s: %w", key, err)
	}

	signed := req.URL
	if s.cdnDomain != "" {
		if rewritten, err := rewriteHost(signed, s.cdnDomain); err == nil {
			signed = rewritten
		} else {
			logging.Warn().Err(err).Msg("CDN rewrite failed; serving origin URL")
		}
	}
	asset.SignedURL = signed
	return nil
}

// SignAssets signs every asset in place. A single signing failure skips
// that asset rather than failing the response.
func (s *Signer) SignAssets(ctx context.Context, assets []models.ClipAsset) {
	for i := range assets {
		if err := s.SignAsset(ctx, &assets[i]); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("uri", assets[i].StorageURI).Msg("Asset signing failed")
		}
	}
}

// objectKey extracts the bucket key from s3://bucket/key and gs://bucket/key
// URIs, or accepts a bare key.
func (s *Signer) objectKey(storageURI string) string {
	for _, scheme := range []string{"s3://", "gs://"} {
		if strings.HasPrefix(storageURI, scheme) {
			rest := strings.TrimPrefix(storageURI, scheme)
			slash := strings.IndexByte(rest, '/')
			if slash < 0 {
				return ""
			}
			if rest[:slash] != s.bucket {
				return ""
			}
			return rest[slash+1:]
		}
	}
	if strings.Contains(storageURI, "://") {
		return ""
	}
	return strings.TrimPrefix(storageURI, "/")
}

func rewriteHost(raw, cdnDomain string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	u.Host = cdnDomain
	return u.String(), nil
}
