package service

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"devicesim/internal/domain"
	"devicesim/internal/repository"

	"gopkg.in/yaml.v3"
)

// ProfileService owns the builtin behavior-profile catalog and serves it
// to the pool as a pool.ProfileLoader. Builtin catalogs loaded from disk
// are cached in memory and mirrored to the database so an operator can see
// and override what is in effect; they are never re-derived from the
// database on the hot path.
type ProfileService struct {
	repo repository.BehaviorProfileRepository

	mu      sync.RWMutex
	catalog map[domain.DeviceType]domain.BehaviorProfile
}

// NewProfileService creates a new profile service.
func NewProfileService(repo repository.BehaviorProfileRepository) *ProfileService {
	return &ProfileService{
		repo:    repo,
		catalog: make(map[domain.DeviceType]domain.BehaviorProfile),
	}
}

// LoadProfile implements pool.ProfileLoader.
func (s *ProfileService) LoadProfile(deviceType domain.DeviceType) domain.BehaviorProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog[deviceType]
}

// LoadBuiltinProfiles loads every *.yaml file under profilesDir in
// profilesFS, each describing one device type's OID catalog, into the
// in-memory cache and upserts it into the database for operator
// visibility. profilesFS is the embedded builtin catalog.
func (s *ProfileService) LoadBuiltinProfiles(ctx context.Context, profilesFS fs.FS, profilesDir string) error {
	entries, err := fs.ReadDir(profilesFS, profilesDir)
	if err != nil {
		return fmt.Errorf("failed to list profile files: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		filePath := path.Join(profilesDir, entry.Name())
		if err := s.loadProfileFile(ctx, profilesFS, filePath); err != nil {
			return fmt.Errorf("failed to load profile %s: %w", filePath, err)
		}
	}
	return nil
}

// GetAll returns every persisted behavior-profile catalog entry.
func (s *ProfileService) GetAll(ctx context.Context) ([]domain.BehaviorProfileRecord, error) {
	return s.repo.GetAll(ctx)
}

// GetByDeviceType returns the persisted catalog entry for deviceType.
func (s *ProfileService) GetByDeviceType(ctx context.Context, deviceType domain.DeviceType) (*domain.BehaviorProfileRecord, error) {
	return s.repo.GetByDeviceType(ctx, deviceType)
}

// Upsert stores an operator-supplied catalog override and refreshes the
// in-memory cache so it takes effect for the next actor spawned for
// deviceType.
func (s *ProfileService) Upsert(ctx context.Context, record *domain.BehaviorProfileRecord) error {
	if err := s.repo.Upsert(ctx, record); err != nil {
		return err
	}
	s.mu.Lock()
	s.catalog[record.DeviceType] = domain.BehaviorProfile(record.Catalog)
	s.mu.Unlock()
	return nil
}

// Delete removes the persisted catalog record for deviceType, whether it
// is a builtin or an override. The in-memory catalog is left unchanged, so
// the profile last loaded or upserted for deviceType stays in effect for
// new actors; a builtin entry is not restored.
func (s *ProfileService) Delete(ctx context.Context, deviceType domain.DeviceType) error {
	return s.repo.Delete(ctx, deviceType)
}

func (s *ProfileService) loadProfileFile(ctx context.Context, profilesFS fs.FS, filePath string) error {
	data, err := fs.ReadFile(profilesFS, filePath)
	if err != nil {
		return err
	}

	var fileYAML domain.BehaviorProfileYAML
	if err := yaml.Unmarshal(data, &fileYAML); err != nil {
		return err
	}

	profile := fileYAML.ToBehaviorProfile()

	s.mu.Lock()
	s.catalog[fileYAML.DeviceType] = profile
	s.mu.Unlock()

	if s.repo == nil {
		return nil
	}
	record := &domain.BehaviorProfileRecord{
		DeviceType: fileYAML.DeviceType,
		Catalog:    domain.BehaviorProfileJSON(profile),
		IsBuiltin:  true,
	}
	return s.repo.Upsert(ctx, record)
}
