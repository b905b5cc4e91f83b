package Models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkloadType(t *testing.T) {
	workloadType, err := NewWorkloadType(WorkloadTypeIdle)
	require.NoError(t, err)
	assert.Equal(t, "idle", workloadType.Value())
	assert.Equal(t, "Простой", workloadType.Label())

	_, err = NewWorkloadType("holiday")
	require.Error(t, err)
	assert.Equal(t, "wrong workload type: holiday", err.Error())
}

func TestWorkloadTypeLabels_ReturnsCopy(t *testing.T) {
	labels := WorkloadTypeLabels()
	assert.Equal(t, "Отпуск", labels[WorkloadTypeVacation])

	labels[WorkloadTypeVacation] = "изменено"
	assert.Equal(t, "Отпуск", WorkloadTypeLabels()[WorkloadTypeVacation])
}

func TestWorkloadRestTypes_ExcludesWork(t *testing.T) {
	assert.Equal(t, []string{"idle", "vacation", "away", "sick"}, WorkloadRestTypes())
}

func TestNewGrade(t *testing.T) {
	grade, err := NewGrade(GradeSenior)
	require.NoError(t, err)
	assert.Equal(t, "Senior", grade.Value())

	_, err = NewGrade("senior")
	require.Error(t, err)
	assert.Equal(t, "wrong grade: senior", err.Error())
}

func TestBasicGrades_ReturnsCopy(t *testing.T) {
	grades := BasicGrades()
	grades[0] = "Trainee"
	assert.Equal(t, []string{"Junior", "Middle", "Senior"}, BasicGrades())
}
