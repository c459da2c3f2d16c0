package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/movierec/core"
)

// PreferenceStore 是基于 core.KeyValueStore 的偏好 / 设置存储适配器。
// 实现 core.PreferenceStore 与 core.SettingsStore。
type PreferenceStore struct {
	kv core.KeyValueStore

	// KeyPrefix 是存储 key 的前缀
	// 偏好信号：{KeyPrefix}:prefs:{userID}（Hash，field = itemID）
	// 用户设置：{KeyPrefix}:settings:{userID}
	KeyPrefix string

	now func() time.Time
}

// NewPreferenceStore 创建偏好存储适配器。
func NewPreferenceStore(kv core.KeyValueStore, keyPrefix string) *PreferenceStore {
	if keyPrefix == "" {
		keyPrefix = "movierec"
	}
	return &PreferenceStore{kv: kv, KeyPrefix: keyPrefix, now: time.Now}
}

var (
	_ core.PreferenceStore = (*PreferenceStore)(nil)
	_ core.SettingsStore   = (*PreferenceStore)(nil)
)

func (a *PreferenceStore) prefsKey(userID int64) string {
	return a.KeyPrefix + ":prefs:" + strconv.FormatInt(userID, 10)
}

func (a *PreferenceStore) settingsKey(userID int64) string {
	return a.KeyPrefix + ":settings:" + strconv.FormatInt(userID, 10)
}

// Signals 读取用户全部偏好信号，按 (时间, itemID) 升序返回；没有记录时返回空切片。
func (a *PreferenceStore) Signals(ctx context.Context, userID int64) ([]core.PreferenceSignal, error) {
	raw, err := a.kv.HGetAll(ctx, a.prefsKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []core.PreferenceSignal{}, nil
		}
		return nil, err
	}

	out := make([]core.PreferenceSignal, 0, len(raw))
	for field, data := range raw {
		var s core.PreferenceSignal
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode signal %s/%s: %w", a.prefsKey(userID), field, err)
		}
		if !s.Value.Valid() {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out, nil
}

// Upsert 写入或覆盖一条 (user, item) 信号；Timestamp 为零值时使用当前时间。
func (a *PreferenceStore) Upsert(ctx context.Context, signal core.PreferenceSignal) error {
	if !signal.Value.Valid() {
		return fmt.Errorf("signal value %d: %w", signal.Value, core.ErrInvalidInput)
	}
	if signal.Timestamp.IsZero() {
		signal.Timestamp = a.now().UTC()
	}
	data, err := json.Marshal(signal)
	if err != nil {
		return err
	}
	return a.kv.HSet(ctx, a.prefsKey(signal.UserID), strconv.FormatInt(signal.ItemID, 10), data)
}

// Remove 删除一条 (user, item) 信号，不存在时不报错。
func (a *PreferenceStore) Remove(ctx context.Context, userID, itemID int64) error {
	return a.kv.HDel(ctx, a.prefsKey(userID), strconv.FormatInt(itemID, 10))
}

// Settings 读取用户设置；不存在时返回 core.ErrStoreNotFound。
func (a *PreferenceStore) Settings(ctx context.Context, userID int64) (core.UserSettings, error) {
	data, err := a.kv.Get(ctx, a.settingsKey(userID))
	if err != nil {
		return core.UserSettings{}, err
	}
	var s core.UserSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return core.UserSettings{}, fmt.Errorf("decode settings %s: %w", a.settingsKey(userID), err)
	}
	s.UserID = userID
	return s.Normalized(), nil
}

// SaveSettings 覆盖写入用户设置。
func (a *PreferenceStore) SaveSettings(ctx context.Context, settings core.UserSettings) error {
	data, err := json.Marshal(settings.Normalized())
	if err != nil {
		return err
	}
	return a.kv.Set(ctx, a.settingsKey(settings.UserID), data)
}
