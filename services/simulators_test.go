package services_test

import (
	"math/rand"
	"testing"

	"github.com/ncerda/simulator-server/models"
	"github.com/ncerda/simulator-server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func simulatorInput(name string, quotas ...models.CategoryQuota) services.SimulatorInput {
	return services.SimulatorInput{
		Name:              name,
		Password:          "secret",
		Duration:          90,
		Navigate:          true,
		Visibility:        true,
		CategoryQuestions: quotas,
	}
}

func simulatorQuestionIDs(t *testing.T, db *gorm.DB, simID string) []uint {
	t.Helper()
	var sim models.Simulator
	require.NoError(t, db.Preload("Questions").First(&sim, "id = ?", simID).Error)
	ids := make([]uint, 0, len(sim.Questions))
	for _, q := range sim.Questions {
		ids = append(ids, q.ID)
	}
	return ids
}

func TestCreateSimulatorPersistsSelection(t *testing.T) {
	db := newTestDB(t)
	math := seedCategory(t, db, "Math")
	bio := seedCategory(t, db, "Biology")
	seedQuestions(t, db, math.ID, 6)
	seedQuestions(t, db, bio.ID, 4)

	sim, err := services.CreateSimulator(db, simulatorInput("Midterm",
		models.CategoryQuota{CategoryID: math.ID, NumberOfQuestions: 4},
		models.CategoryQuota{CategoryID: bio.ID, NumberOfQuestions: 3},
	), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, 7, sim.NumberOfQuestions)
	assert.Len(t, simulatorQuestionIDs(t, db, sim.ID), 7)
	assert.NotEqual(t, "secret", sim.Password, "passwords are stored hashed")
}

func TestCreateSimulatorDuplicateName(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Math")
	seedQuestions(t, db, cat.ID, 2)

	quota := models.CategoryQuota{CategoryID: cat.ID, NumberOfQuestions: 1}
	_, err := services.CreateSimulator(db, simulatorInput("Midterm", quota), nil)
	require.NoError(t, err)

	_, err = services.CreateSimulator(db, simulatorInput("Midterm", quota), nil)
	require.Error(t, err)
	assert.Equal(t, 409, services.StatusOf(err))
}

func TestCreateSimulatorInsufficientLeavesNoRow(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Math")
	seedQuestions(t, db, cat.ID, 2)

	_, err := services.CreateSimulator(db, simulatorInput("Midterm",
		models.CategoryQuota{CategoryID: cat.ID, NumberOfQuestions: 5},
	), nil)
	require.Error(t, err)

	var iq *services.InsufficientQuestionsError
	require.ErrorAs(t, err, &iq)

	var count int64
	db.Model(&models.Simulator{}).Count(&count)
	assert.EqualValues(t, 0, count, "a failed sampling must not leave a simulator behind")
}

func TestUpdateSimulatorResamplesWithQuotas(t *testing.T) {
	db := newTestDB(t)
	math := seedCategory(t, db, "Math")
	bio := seedCategory(t, db, "Biology")
	seedQuestions(t, db, math.ID, 5)
	seedQuestions(t, db, bio.ID, 5)

	sim, err := services.CreateSimulator(db, simulatorInput("Midterm",
		models.CategoryQuota{CategoryID: math.ID, NumberOfQuestions: 3},
	), nil)
	require.NoError(t, err)

	updated, err := services.UpdateSimulator(db, sim.ID, services.SimulatorUpdateInput{
		CategoryQuestions: []models.CategoryQuota{
			{CategoryID: bio.ID, NumberOfQuestions: 2},
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, updated.NumberOfQuestions)
	ids := simulatorQuestionIDs(t, db, sim.ID)
	require.Len(t, ids, 2)
	for _, id := range ids {
		var q models.Question
		require.NoError(t, db.First(&q, id).Error)
		assert.Equal(t, bio.ID, *q.CategoryID, "old selection is replaced, not merged")
	}
}

func TestUpdateSimulatorWithoutQuotasKeepsSelection(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Math")
	seedQuestions(t, db, cat.ID, 5)

	sim, err := services.CreateSimulator(db, simulatorInput("Midterm",
		models.CategoryQuota{CategoryID: cat.ID, NumberOfQuestions: 3},
	), nil)
	require.NoError(t, err)
	before := simulatorQuestionIDs(t, db, sim.ID)

	name := "Final"
	duration := 120
	updated, err := services.UpdateSimulator(db, sim.ID, services.SimulatorUpdateInput{
		Name:     &name,
		Duration: &duration,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Final", updated.Name)
	assert.Equal(t, 120, updated.Duration)
	assert.Equal(t, 3, updated.NumberOfQuestions)
	assert.ElementsMatch(t, before, simulatorQuestionIDs(t, db, sim.ID))
}

func TestUpdateSimulatorInsufficientKeepsOldSelection(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Math")
	seedQuestions(t, db, cat.ID, 3)

	sim, err := services.CreateSimulator(db, simulatorInput("Midterm",
		models.CategoryQuota{CategoryID: cat.ID, NumberOfQuestions: 2},
	), nil)
	require.NoError(t, err)
	before := simulatorQuestionIDs(t, db, sim.ID)

	_, err = services.UpdateSimulator(db, sim.ID, services.SimulatorUpdateInput{
		CategoryQuestions: []models.CategoryQuota{
			{CategoryID: cat.ID, NumberOfQuestions: 9},
		},
	}, nil)
	require.Error(t, err)

	assert.ElementsMatch(t, before, simulatorQuestionIDs(t, db, sim.ID))
}

func TestDeleteSimulatorKeepsQuestions(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Math")
	seedQuestions(t, db, cat.ID, 3)

	sim, err := services.CreateSimulator(db, simulatorInput("Midterm",
		models.CategoryQuota{CategoryID: cat.ID, NumberOfQuestions: 3},
	), nil)
	require.NoError(t, err)

	require.NoError(t, services.DeleteSimulator(db, sim.ID))

	var questions, links int64
	db.Model(&models.Question{}).Count(&questions)
	db.Table("simulator_questions").Count(&links)
	assert.EqualValues(t, 3, questions, "questions outlive the simulators that reference them")
	assert.EqualValues(t, 0, links)
}

func TestDeleteQuestionDecrementsSimulators(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{}
	cat := seedCategory(t, db, "Math")
	seedQuestions(t, db, cat.ID, 2)

	quota := models.CategoryQuota{CategoryID: cat.ID, NumberOfQuestions: 2}
	simA, err := services.CreateSimulator(db, simulatorInput("Midterm", quota), nil)
	require.NoError(t, err)
	simB, err := services.CreateSimulator(db, simulatorInput("Final", quota), nil)
	require.NoError(t, err)

	ids := simulatorQuestionIDs(t, db, simA.ID)
	require.NoError(t, services.DeleteQuestion(db, store, ids[0]))

	for _, simID := range []string{simA.ID, simB.ID} {
		var sim models.Simulator
		require.NoError(t, db.First(&sim, "id = ?", simID).Error)
		assert.Equal(t, 1, sim.NumberOfQuestions)
		assert.Len(t, simulatorQuestionIDs(t, db, simID), 1)
	}
}

func TestGetSimulatorReportsCategoryQuestions(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{}
	math := seedCategory(t, db, "Math")
	bio := seedCategory(t, db, "Biology")
	seedQuestions(t, db, math.ID, 4)
	seedQuestions(t, db, bio.ID, 4)

	sim, err := services.CreateSimulator(db, simulatorInput("Midterm",
		models.CategoryQuota{CategoryID: math.ID, NumberOfQuestions: 3},
		models.CategoryQuota{CategoryID: bio.ID, NumberOfQuestions: 1},
	), nil)
	require.NoError(t, err)

	view, err := services.GetSimulator(db, store, sim.ID)
	require.NoError(t, err)

	assert.Len(t, view.Questions, 4)
	perCategory := make(map[uint]int, len(view.CategoryQuestions))
	for _, cq := range view.CategoryQuestions {
		perCategory[cq.CategoryID] = cq.NumberOfQuestions
	}
	assert.Equal(t, map[uint]int{math.ID: 3, bio.ID: 1}, perCategory)
}

func TestSignInSimulator(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Math")
	seedQuestions(t, db, cat.ID, 1)

	quota := models.CategoryQuota{CategoryID: cat.ID, NumberOfQuestions: 1}
	sim, err := services.CreateSimulator(db, simulatorInput("Midterm", quota), nil)
	require.NoError(t, err)

	got, err := services.SignInSimulator(db, sim.ID, "secret")
	require.NoError(t, err)
	assert.Equal(t, sim.ID, got.ID)

	_, err = services.SignInSimulator(db, sim.ID, "wrong")
	require.Error(t, err)
	assert.Equal(t, 400, services.StatusOf(err))
}

func TestSignInSimulatorHiddenIsNotFound(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Math")
	seedQuestions(t, db, cat.ID, 1)

	in := simulatorInput("Hidden", models.CategoryQuota{CategoryID: cat.ID, NumberOfQuestions: 1})
	in.Visibility = false
	sim, err := services.CreateSimulator(db, in, nil)
	require.NoError(t, err)

	_, err = services.SignInSimulator(db, sim.ID, "secret")
	require.Error(t, err)
	assert.Equal(t, 404, services.StatusOf(err))
}

func TestResetSimulatorPassword(t *testing.T) {
	db := newTestDB(t)
	cat := seedCategory(t, db, "Math")
	seedQuestions(t, db, cat.ID, 1)

	quota := models.CategoryQuota{CategoryID: cat.ID, NumberOfQuestions: 1}
	sim, err := services.CreateSimulator(db, simulatorInput("Midterm", quota), nil)
	require.NoError(t, err)

	require.NoError(t, services.ResetSimulatorPassword(db, sim.ID, "changed"))

	_, err = services.SignInSimulator(db, sim.ID, "secret")
	require.Error(t, err)
	_, err = services.SignInSimulator(db, sim.ID, "changed")
	assert.NoError(t, err)
}
