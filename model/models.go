package model

// AllModels lists every table migrated at start.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Module{},
		&Lesson{},
		&Enrollment{},
		&Progress{},
		&Achievement{},
		&UserAchievement{},
		&Certificate{},
		&Cart{},
		&CartItem{},
		&RateLimitConfig{},
	}
}
