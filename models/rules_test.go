package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityScaleBuckets(t *testing.T) {
	scale := DefaultRuleSet().QualityScale

	assert.Equal(t, GradeExcellent, scale.Grade(16))
	assert.Equal(t, GradeExcellent, scale.Grade(14))
	assert.Equal(t, GradeGood, scale.Grade(13))
	assert.Equal(t, GradeGood, scale.Grade(10))
	assert.Equal(t, GradeFair, scale.Grade(6))
	assert.Equal(t, GradePoor, scale.Grade(5))
	assert.Equal(t, GradePoor, scale.Grade(0))
}

func TestGrowthScaleBuckets(t *testing.T) {
	scale := DefaultRuleSet().GrowthScale

	assert.Equal(t, GradeExcellent, scale.Grade(9))
	assert.Equal(t, GradeExcellent, scale.Grade(8))
	assert.Equal(t, GradeGood, scale.Grade(6))
	assert.Equal(t, GradeFair, scale.Grade(4))
	assert.Equal(t, GradePoor, scale.Grade(3))
}

func TestDefaultRuleSetLeakage(t *testing.T) {
	r := DefaultRuleSet()
	assert.Equal(t, 4000.0, r.LeakageHardLimit)
	assert.Equal(t, 3950.0, r.LeakageNearMissLimit)
	assert.Equal(t, 0.25, r.LeakageNearMissProbability)
	assert.Equal(t, Range{4000, 4100}, r.LeakingSoilMoisture)
}
