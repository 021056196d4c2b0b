package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"matchview/models"
	"matchview/utils"
)

const (
	MinPageSize = 1
	MaxPageSize = 100
)

var ErrInvalidPreferences = errors.New("invalid preferences")

// PreferenceService stores per-viewer display preferences in DynamoDB
type PreferenceService struct {
	store           *DynamoService
	table           string
	defaultPageSize int
	logger          *zap.Logger
	now             func() time.Time
}

func NewPreferenceService(store *DynamoService, table string, defaultPageSize int, logger *zap.Logger) *PreferenceService {
	if table == "" {
		table = models.PreferencesTable
	}
	if defaultPageSize <= 0 {
		defaultPageSize = models.DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{
		store:           store,
		table:           table,
		defaultPageSize: defaultPageSize,
		logger:          logger,
		now:             time.Now,
	}
}

// Get returns username's preferences, or defaults when none are stored
func (s *PreferenceService) Get(ctx context.Context, username string) (models.Preferences, error) {
	var prefs models.Preferences
	err := s.store.GetItem(ctx, s.table, utils.StringKey("username", username), &prefs)
	if errors.Is(err, ErrItemNotFound) {
		return s.defaults(username), nil
	}
	if err != nil {
		return models.Preferences{}, err
	}
	if prefs.PageSize == 0 {
		prefs.PageSize = s.defaultPageSize
	}
	if prefs.CollapsedSections == nil {
		prefs.CollapsedSections = map[string]bool{}
	}
	prefs.Username = username
	return prefs, nil
}

// Put replaces username's preferences
func (s *PreferenceService) Put(ctx context.Context, username string, prefs models.Preferences) (models.Preferences, error) {
	if prefs.PageSize != 0 {
		if err := validPageSize(prefs.PageSize); err != nil {
			return models.Preferences{}, err
		}
	}
	prefs.Username = username
	prefs.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err := s.store.PutItem(ctx, s.table, prefs); err != nil {
		return models.Preferences{}, err
	}
	if prefs.PageSize == 0 {
		prefs.PageSize = s.defaultPageSize
	}
	return prefs, nil
}

// SetCollapsed records whether one dashboard section is collapsed
func (s *PreferenceService) SetCollapsed(ctx context.Context, username, section string, collapsed bool) (models.Preferences, error) {
	section = strings.TrimSpace(section)
	if section == "" {
		return models.Preferences{}, fmt.Errorf("%w: empty section", ErrInvalidPreferences)
	}
	prefs, err := s.Get(ctx, username)
	if err != nil {
		return models.Preferences{}, err
	}
	prefs.CollapsedSections[section] = collapsed

	sections, err := attributevalue.Marshal(prefs.CollapsedSections)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("marshal collapsed sections: %w", err)
	}
	prefs.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	_, err = s.store.UpdateItem(ctx, s.table,
		"SET #cs = :cs, #ua = :ua",
		utils.StringKey("username", username),
		map[string]types.AttributeValue{
			":cs": sections,
			":ua": &types.AttributeValueMemberS{Value: prefs.UpdatedAt},
		},
		map[string]string{"#cs": "collapsedSections", "#ua": "updatedAt"},
	)
	if err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}

// Delete removes username's stored preferences
func (s *PreferenceService) Delete(ctx context.Context, username string) error {
	return s.store.DeleteItem(ctx, s.table, utils.StringKey("username", username))
}

// PageSize returns username's stored page size, falling back to the default
func (s *PreferenceService) PageSize(ctx context.Context, username string) int {
	prefs, err := s.Get(ctx, username)
	if err != nil {
		s.logger.Warn("failed to load preferences", zap.String("username", username), zap.Error(err))
		return s.defaultPageSize
	}
	return prefs.PageSize
}

// SavePageSize persists only the page size
func (s *PreferenceService) SavePageSize(ctx context.Context, username string, size int) error {
	if err := validPageSize(size); err != nil {
		return err
	}
	_, err := s.store.UpdateItem(ctx, s.table,
		"SET #ps = :ps, #ua = :ua",
		utils.StringKey("username", username),
		map[string]types.AttributeValue{
			":ps": &types.AttributeValueMemberN{Value: fmt.Sprint(size)},
			":ua": &types.AttributeValueMemberS{Value: s.now().UTC().Format(time.RFC3339)},
		},
		map[string]string{"#ps": "pageSize", "#ua": "updatedAt"},
	)
	return err
}

func (s *PreferenceService) defaults(username string) models.Preferences {
	return models.Preferences{
		Username:          username,
		PageSize:          s.defaultPageSize,
		CollapsedSections: map[string]bool{},
	}
}

func validPageSize(size int) error {
	if size < MinPageSize || size > MaxPageSize {
		return fmt.Errorf("%w: page size %d outside %d..%d", ErrInvalidPreferences, size, MinPageSize, MaxPageSize)
	}
	return nil
}
