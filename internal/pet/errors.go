package pet

import "errors"

var (
	ErrDailyLimit       = errors.New("egg_daily_limit")
	ErrGenerationFailed = errors.New("hatch_generation_failed")
)
