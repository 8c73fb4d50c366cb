package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	httpadapter "github.com/PabloGalante/studybuddy/internal/adapters/http"
	"github.com/PabloGalante/studybuddy/internal/adapters/identity"
	"github.com/PabloGalante/studybuddy/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/studybuddy/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/studybuddy/internal/adapters/storage/memory"
	pgstore "github.com/PabloGalante/studybuddy/internal/adapters/storage/postgres"
	"github.com/PabloGalante/studybuddy/internal/adapters/supabase"
	"github.com/PabloGalante/studybuddy/internal/adapters/vision"
	"github.com/PabloGalante/studybuddy/internal/config"
	"github.com/PabloGalante/studybuddy/internal/domain"
	"github.com/PabloGalante/studybuddy/internal/observability"
)

const localTokenTTL = 24 * time.Hour

// openStore returns the relational collaborator and its closer.
func openStore(ctx context.Context, cfg *config.Config) (domain.Store, func(), error) {
	log := observability.Logger()

	switch cfg.StorageBackend {
	case config.StoragePostgres:
		log.Info("using postgres storage", "auto_migrate", cfg.AutoMigrate)
		s, err := pgstore.Open(cfg.DatabaseURL, cfg.AutoMigrate)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing postgres store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil

	case config.StorageFirestore:
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		s, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing firestore store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil

	default:
		log.Info("using in-memory storage")
		return memstore.NewStore(), func() {}, nil
	}
}

func newLLM(ctx context.Context, cfg *config.Config) (domain.LLMClient, error) {
	if cfg.MockLLM() {
		observability.Logger().Info("using mock LLM client")
		return llm.NewMockLLM(), nil
	}

	observability.Logger().Info("using Gemini LLM client", "model", cfg.ModelName)
	c, err := llm.NewGeminiClient(ctx, llm.GeminiOptions{APIKey: cfg.GeminiAPIKey, ModelName: cfg.ModelName})
	if err != nil {
		return nil, fmt.Errorf("initializing Gemini client: %w", err)
	}
	return c, nil
}

// newOCR returns nil when Vision is not configured; image analysis then
// answers 503.
func newOCR(ctx context.Context, cfg *config.Config) domain.OCRClient {
	c, err := vision.NewClient(ctx, vision.Options{APIKey: cfg.VisionAPIKey, Endpoint: cfg.VisionEndpoint})
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			observability.Logger().Warn("image analysis disabled", "reason", err)
		} else {
			observability.Logger().Error("vision client init failed", "error", err)
		}
		return nil
	}
	return c
}

type identityStack struct {
	provider     domain.IdentityProvider
	verifier     domain.TokenVerifier
	objects      domain.ObjectStorage
	objectReader httpadapter.ObjectReader
}

// newIdentity wires the in-process provider and object storage in local
// mode, Supabase in cloud mode.
func newIdentity(cfg *config.Config) (*identityStack, error) {
	if cfg.Mode == config.ModeLocal {
		observability.Logger().Info("using local identity provider")
		if cfg.InsecureLocalSecret() {
			observability.Logger().Warn("local tokens are signed with the built-in development secret; set STUDYBUDDY_LOCAL_JWT_SECRET")
		}
		provider := identity.NewLocalProvider(identity.NewTokens(cfg.LocalJWTSecret, localTokenTTL))
		objects := memstore.NewObjectStorage(cfg.PublicBaseURL + "/objects")
		return &identityStack{
			provider:     provider,
			verifier:     provider,
			objects:      objects,
			objectReader: objects,
		}, nil
	}

	client, err := supabase.NewClient(supabase.Options{
		URL:        cfg.SupabaseURL,
		AnonKey:    cfg.SupabaseAnonKey,
		ServiceKey: cfg.SupabaseServiceKey,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing supabase client: %w", err)
	}
	observability.Logger().Info("using supabase identity provider", "bucket", cfg.AvatarBucket)
	return &identityStack{
		provider: supabase.NewAuth(client),
		verifier: identity.NewTokens(cfg.SupabaseJWTSecret, 0),
		objects:  supabase.NewStorage(client, cfg.AvatarBucket),
	}, nil
}
