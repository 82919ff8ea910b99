package stats

import (
	"context"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
)

// Activity はストリーク対象の活動種別。
type Activity string

const (
	// ActivityJob は求人応募の活動。
	ActivityJob Activity = "job"
	// ActivityDealflow はディールフローソーシングの活動。
	ActivityDealflow Activity = "dealflow"
)

// NextStreak は現在のストリークと最終更新日から、今日の活動後の値を返す。
// 遷移規則:
//   - 最終更新日なし → 1
//   - 最終更新日が今日 → 変化なし（同日2回目以降は数えない）
//   - 最終更新日が昨日 → +1
//   - それ以外 → 1にリセット
func NextStreak(current int, lastDate *time.Time, today time.Time) (int, bool) {
	today = startOfDay(today)
	if lastDate == nil {
		return 1, true
	}
	last := startOfDay(*lastDate)
	switch {
	case last.Equal(today):
		return current, false
	case last.Equal(today.AddDate(0, 0, -1)):
		return current + 1, true
	default:
		return 1, true
	}
}

// StreakService は活動発生時のストリーク更新を担う。
// 応募・ディールフローレコードの作成時に呼び出される。
type StreakService struct {
	settings repository.SettingsRepository
	now      func() time.Time // テスト用に差し替え可能
}

// NewStreakService はStreakServiceの新しいインスタンスを生成する。
func NewStreakService(settings repository.SettingsRepository) *StreakService {
	return &StreakService{settings: settings, now: time.Now}
}

// Record は活動の発生を記録しストリークを更新する。更新後の設定を返す。
func (s *StreakService) Record(ctx context.Context, activity Activity) (*model.UserSettings, error) {
	settings, err := s.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	today := startOfDay(s.now())

	switch activity {
	case ActivityJob:
		next, changed := NextStreak(settings.JobApplicationStreak, settings.JobApplicationStreakDate, today)
		if !changed {
			return settings, nil
		}
		settings.JobApplicationStreak = next
		settings.JobApplicationStreakDate = &today
	case ActivityDealflow:
		next, changed := NextStreak(settings.DealflowSourcingStreak, settings.DealflowSourcingStreakDate, today)
		if !changed {
			return settings, nil
		}
		settings.DealflowSourcingStreak = next
		settings.DealflowSourcingStreakDate = &today
	default:
		return settings, nil
	}

	if err := s.settings.UpdateStreaks(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
