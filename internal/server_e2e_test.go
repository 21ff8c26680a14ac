package agency_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agency "github.com/4oBuko/spy-cat-agency-records/internal"
	"github.com/4oBuko/spy-cat-agency-records/internal/config"
	"github.com/4oBuko/spy-cat-agency-records/internal/models"
	"github.com/4oBuko/spy-cat-agency-records/internal/repositories"
	"github.com/4oBuko/spy-cat-agency-records/internal/services"
	"github.com/4oBuko/spy-cat-agency-records/internal/storage/storagetest"
	"github.com/4oBuko/spy-cat-agency-records/pkg/catapi"
)

func newTestServer(t *testing.T) *agency.Server {
	t.Helper()
	db := storagetest.New(t)
	catRepo := repositories.NewMySQLCatRepository(db.SQL)
	missionRepo := repositories.NewMySQLMissionRepository(db.SQL)
	targetRepo := repositories.NewMySQLTargetRepository(db.SQL)

	catAPI := NewFakeCatAPI()
	catService := services.NewDefaultCatService(catRepo, catAPI)
	missionService := services.NewDefaultMissionService(missionRepo, targetRepo, catRepo)
	targetService := services.NewDefaultTargetService(targetRepo, missionRepo)
	return agency.NewServer(config.HTTPConfig{}, catService, missionService, targetService, agency.WithHealthCheck(db))
}

func TestGetAllCats(t *testing.T) {
	server := newTestServer(t)
	cats := []models.Cat{
		createNewCatSuccessfully(t, server, models.Cat{Name: "Silky", Breed: "American Bobtail", YearsOfExperience: 2, Salary: 500}),
		createNewCatSuccessfully(t, server, models.Cat{Name: "Milky", Breed: "American Shorthair", YearsOfExperience: 4, Salary: 1500}),
		createNewCatSuccessfully(t, server, models.Cat{Name: "Morgana", Breed: "American Curl", YearsOfExperience: 10, Salary: 5555}),
	}

	request, _ := http.NewRequest(http.MethodGet, agency.Endpoints.CatGetAll, nil)
	response := doRequestAndExpect(t, server, request, http.StatusOK)
	allCats := unmarshal[[]models.Cat](t, response.Body.Bytes())
	assert.Equal(t, cats, allCats)
}

func TestAddNewCat(t *testing.T) {
	server := newTestServer(t)

	t.Run("add new cat successfully", func(t *testing.T) {
		newCat := models.Cat{
			Name:              "Tom",
			Breed:             "abyssinian",
			YearsOfExperience: 1,
			Salary:            1000,
		}
		cat := createNewCatSuccessfully(t, server, newCat)
		newCat.Id = cat.Id
		assert.Equal(t, newCat, cat)
	})

	t.Run("attempt to add cat with unexisted breed", func(t *testing.T) {
		body := marshal(t, models.Cat{Name: "Tom", Breed: "Persian", YearsOfExperience: 3, Salary: 1000})
		request, _ := http.NewRequest(http.MethodPost, agency.Endpoints.CatCreate, bytes.NewReader(body))
		response := doRequestAndExpect(t, server, request, http.StatusBadRequest)
		assert.JSONEq(t, `{"error":"validation_error","message":"Invalid breed: Persian"}`, response.Body.String())
	})
}

func TestGetCatById(t *testing.T) {
	server := newTestServer(t)

	t.Run("create new cat and try to get it", func(t *testing.T) {
		cat := createNewCatSuccessfully(t, server, models.Cat{Name: "Aboba", Breed: "American Bobtail", YearsOfExperience: 1, Salary: 777})
		request := newRequest(http.MethodGet, agency.Endpoints.CatGet, cat.Id, nil)
		response := doRequestAndExpect(t, server, request, http.StatusOK)
		assert.Equal(t, cat, unmarshal[models.Cat](t, response.Body.Bytes()))
	})

	t.Run("try to get non existing cat", func(t *testing.T) {
		request := newRequest(http.MethodGet, agency.Endpoints.CatGet, math.MaxInt64, nil)
		doRequestAndExpect(t, server, request, http.StatusNotFound)
	})
}

func TestUpdateSalary(t *testing.T) {
	server := newTestServer(t)
	cat := createNewCatSuccessfully(t, server, models.Cat{Name: "Bobby", Breed: "American Shorthair", YearsOfExperience: 3, Salary: 900})

	request := newRequest(http.MethodPut, agency.Endpoints.CatUpdateSalary, cat.Id, strings.NewReader(`{"salary":1800}`))
	response := doRequestAndExpect(t, server, request, http.StatusOK)
	cat.Salary = 1800
	assert.Equal(t, cat, unmarshal[models.Cat](t, response.Body.Bytes()))

	request = newRequest(http.MethodPut, agency.Endpoints.CatUpdateSalary, math.MaxInt64, strings.NewReader(`{"salary":1800}`))
	doRequestAndExpect(t, server, request, http.StatusNotFound)
}

func TestDeleteCat(t *testing.T) {
	server := newTestServer(t)

	t.Run("delete cat and try to get by id", func(t *testing.T) {
		cat := createNewCatSuccessfully(t, server, models.Cat{Name: "Phantom Thief", Breed: "American Curl", YearsOfExperience: 5, Salary: 555})

		doRequestAndExpect(t, server, newRequest(http.MethodDelete, agency.Endpoints.CatDelete, cat.Id, nil), http.StatusOK)
		doRequestAndExpect(t, server, newRequest(http.MethodGet, agency.Endpoints.CatGet, cat.Id, nil), http.StatusNotFound)
	})

	t.Run("delete non existing cat", func(t *testing.T) {
		doRequestAndExpect(t, server, newRequest(http.MethodDelete, agency.Endpoints.CatDelete, math.MaxInt64, nil), http.StatusNotFound)
	})
}

func TestMissionLifecycle(t *testing.T) {
	server := newTestServer(t)
	cat := createNewCatSuccessfully(t, server, models.Cat{Name: "Agent A", Breed: "Abyssinian", YearsOfExperience: 6, Salary: 1200})
	mission := createNewMissionSuccessfully(t, server, models.Mission{
		Targets: []models.Target{
			{Name: "cucumber", Country: "USA", Notes: "Never let it get behind your back"},
			{Name: "Christmas tree", Country: "Italy", Notes: "Attacking it at night when it's not expecting you"},
		},
	})

	request := newRequest(http.MethodPut, assignPath(mission.Id, cat.Id), 0, nil)
	response := doRequestAndExpect(t, server, request, http.StatusOK)
	assigned := unmarshal[models.Mission](t, response.Body.Bytes())
	require.NotNil(t, assigned.CatId)
	assert.Equal(t, cat.Id, *assigned.CatId)

	t.Run("second open mission for the same cat", func(t *testing.T) {
		other := createNewMissionSuccessfully(t, server, models.Mission{
			Targets: []models.Target{{Name: "the red dot", Country: "France"}},
		})
		request := newRequest(http.MethodPut, assignPath(other.Id, cat.Id), 0, nil)
		response := doRequestAndExpect(t, server, request, http.StatusConflict)
		assert.Contains(t, response.Body.String(), "Agent A")
	})

	t.Run("assigned mission cannot be deleted", func(t *testing.T) {
		doRequestAndExpect(t, server, newRequest(http.MethodDelete, agency.Endpoints.MissionDelete, mission.Id, nil), http.StatusConflict)
		doRequestAndExpect(t, server, newRequest(http.MethodGet, agency.Endpoints.MissionGet, mission.Id, nil), http.StatusOK)
	})

	t.Run("notes editable while open", func(t *testing.T) {
		target := mission.Targets[0]
		request := newRequest(http.MethodPut, agency.Endpoints.TargetUpdateNotes, target.Id, strings.NewReader(`{"notes":"Hides in the fridge"}`))
		response := doRequestAndExpect(t, server, request, http.StatusOK)
		target.Notes = "Hides in the fridge"
		assert.Equal(t, target, unmarshal[models.Target](t, response.Body.Bytes()))
	})

	t.Run("complete mission", func(t *testing.T) {
		request := newRequest(http.MethodPut, agency.Endpoints.MissionComplete, mission.Id, nil)
		doRequestAndExpect(t, server, request, http.StatusOK)

		request = newRequest(http.MethodGet, agency.Endpoints.MissionGet, mission.Id, nil)
		response := doRequestAndExpect(t, server, request, http.StatusOK)
		completed := unmarshal[models.Mission](t, response.Body.Bytes())
		assert.True(t, completed.Complete)
		require.Len(t, completed.Targets, 2)
		for _, target := range completed.Targets {
			assert.True(t, target.Complete)
		}
	})

	t.Run("notes frozen after completion", func(t *testing.T) {
		request := newRequest(http.MethodPut, agency.Endpoints.TargetUpdateNotes, mission.Targets[1].Id, strings.NewReader(`{"notes":"too late"}`))
		response := doRequestAndExpect(t, server, request, http.StatusBadRequest)
		assert.JSONEq(t, `{"error":"invalid_state","message":"Cannot update target notes for completed mission"}`, response.Body.String())
	})
}

func TestAddNewMission(t *testing.T) {
	server := newTestServer(t)

	t.Run("new mission with a cat", func(t *testing.T) {
		cat := createNewCatSuccessfully(t, server, models.Cat{Name: "Ash", Breed: "Abyssinian", YearsOfExperience: 6, Salary: 1200})
		newMission := models.Mission{Targets: []models.Target{{Name: "Cat Nip", Country: "Poland", Notes: "It's mighty but has low stamina"}}}
		newMission.SetCatId(cat.Id)
		createNewMissionSuccessfully(t, server, newMission)
	})

	t.Run("too many targets", func(t *testing.T) {
		newMission := models.Mission{}
		for range 4 {
			newMission.Targets = append(newMission.Targets, models.Target{Name: "yarn", Country: "Peru"})
		}
		request, _ := http.NewRequest(http.MethodPost, agency.Endpoints.MissionCreate, bytes.NewReader(marshal(t, newMission)))
		doRequestAndExpect(t, server, request, http.StatusBadRequest)
	})

	t.Run("no targets", func(t *testing.T) {
		request, _ := http.NewRequest(http.MethodPost, agency.Endpoints.MissionCreate, strings.NewReader(`{"targets":[]}`))
		doRequestAndExpect(t, server, request, http.StatusBadRequest)
	})
}

func TestDeleteUnassignedMission(t *testing.T) {
	server := newTestServer(t)
	mission := createNewMissionSuccessfully(t, server, models.Mission{
		Targets: []models.Target{{Name: "laser", Country: "Japan"}},
	})

	request := newRequest(http.MethodDelete, agency.Endpoints.MissionDelete, mission.Id, nil)
	response := doRequestAndExpect(t, server, request, http.StatusOK)
	assert.JSONEq(t, `{"ok":true}`, response.Body.String())

	doRequestAndExpect(t, server, newRequest(http.MethodGet, agency.Endpoints.MissionGet, mission.Id, nil), http.StatusNotFound)
	doRequestAndExpect(t, server, newRequest(http.MethodGet, agency.Endpoints.TargetGet, mission.Targets[0].Id, nil), http.StatusNotFound)
}

func TestTargets(t *testing.T) {
	server := newTestServer(t)
	mission := createNewMissionSuccessfully(t, server, models.Mission{
		Targets: []models.Target{{Name: "vacuum", Country: "Germany"}},
	})

	target := models.Target{MissionId: &mission.Id, Name: "bath", Country: "Norway", Notes: "wet"}
	request, _ := http.NewRequest(http.MethodPost, agency.Endpoints.TargetCreate, bytes.NewReader(marshal(t, target)))
	response := doRequestAndExpect(t, server, request, http.StatusCreated)
	created := unmarshal[models.Target](t, response.Body.Bytes())
	target.Id = created.Id
	assert.Equal(t, target, created)

	request, _ = http.NewRequest(http.MethodGet, agency.Endpoints.TargetGetAll, nil)
	response = doRequestAndExpect(t, server, request, http.StatusOK)
	assert.Len(t, unmarshal[[]models.Target](t, response.Body.Bytes()), 2)

	doRequestAndExpect(t, server, newRequest(http.MethodDelete, agency.Endpoints.TargetDelete, created.Id, nil), http.StatusOK)
	doRequestAndExpect(t, server, newRequest(http.MethodDelete, agency.Endpoints.TargetDelete, created.Id, nil), http.StatusNotFound)
}

func TestCompleteSingleTarget(t *testing.T) {
	server := newTestServer(t)
	mission := createNewMissionSuccessfully(t, server, models.Mission{
		Targets: []models.Target{
			{Name: "vacuum", Country: "Germany"},
			{Name: "bath", Country: "Norway"},
		},
	})

	request := newRequest(http.MethodPut, agency.Endpoints.TargetComplete, mission.Targets[0].Id, nil)
	response := doRequestAndExpect(t, server, request, http.StatusOK)
	assert.True(t, unmarshal[models.Target](t, response.Body.Bytes()).Complete)

	request = newRequest(http.MethodGet, agency.Endpoints.MissionGet, mission.Id, nil)
	response = doRequestAndExpect(t, server, request, http.StatusOK)
	stored := unmarshal[models.Mission](t, response.Body.Bytes())
	assert.False(t, stored.Complete)
	assert.True(t, stored.Targets[0].Complete)
	assert.False(t, stored.Targets[1].Complete)

	doRequestAndExpect(t, server, newRequest(http.MethodPut, agency.Endpoints.TargetComplete, math.MaxInt64, nil), http.StatusNotFound)
}

func TestNotesRoundTrip(t *testing.T) {
	server := newTestServer(t)
	notes := "meet <contact> at dock 3 & bring <b>cash</b>  "
	mission := createNewMissionSuccessfully(t, server, models.Mission{
		Targets: []models.Target{{Name: "dock", Country: "Malta", Notes: notes}},
	})

	body := strings.NewReader(string(marshal(t, models.TargetUpdate{Notes: &notes})))
	request := newRequest(http.MethodPut, agency.Endpoints.TargetUpdateNotes, mission.Targets[0].Id, body)
	response := doRequestAndExpect(t, server, request, http.StatusOK)
	assert.Equal(t, notes, unmarshal[models.Target](t, response.Body.Bytes()).Notes)

	request = newRequest(http.MethodGet, agency.Endpoints.TargetGet, mission.Targets[0].Id, nil)
	response = doRequestAndExpect(t, server, request, http.StatusOK)
	assert.Equal(t, notes, unmarshal[models.Target](t, response.Body.Bytes()).Notes)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)
	request, _ := http.NewRequest(http.MethodGet, agency.Endpoints.Health, nil)
	doRequestAndExpect(t, server, request, http.StatusOK)
}

func assignPath(missionId, catId int64) string {
	path := strings.Replace(agency.Endpoints.MissionAssign, ":id", strconv.FormatInt(missionId, 10), 1)
	return strings.Replace(path, ":catId", strconv.FormatInt(catId, 10), 1)
}

func newRequest(method, endpoint string, id int64, body *strings.Reader) *http.Request {
	url := strings.Replace(endpoint, ":id", strconv.FormatInt(id, 10), 1)
	var request *http.Request
	if body == nil {
		request, _ = http.NewRequest(method, url, nil)
	} else {
		request, _ = http.NewRequest(method, url, body)
	}
	return request
}

func createNewMissionSuccessfully(t *testing.T, server *agency.Server, newMission models.Mission) models.Mission {
	t.Helper()
	request, _ := http.NewRequest(http.MethodPost, agency.Endpoints.MissionCreate, bytes.NewReader(marshal(t, newMission)))
	response := doRequestAndExpect(t, server, request, http.StatusCreated)

	mission := unmarshal[models.Mission](t, response.Body.Bytes())
	require.Equal(t, len(newMission.Targets), len(mission.Targets))
	newMission.Id = mission.Id
	for i := range mission.Targets {
		newMission.Targets[i].Id = mission.Targets[i].Id
		newMission.Targets[i].MissionId = &mission.Id
	}
	require.Equal(t, newMission, mission)
	return mission
}

func createNewCatSuccessfully(t *testing.T, server *agency.Server, cat models.Cat) models.Cat {
	t.Helper()
	request, _ := http.NewRequest(http.MethodPost, agency.Endpoints.CatCreate, bytes.NewReader(marshal(t, cat)))
	response := doRequestAndExpect(t, server, request, http.StatusCreated)

	persistedCat := unmarshal[models.Cat](t, response.Body.Bytes())
	cat.Id = persistedCat.Id
	require.Equal(t, cat, persistedCat)
	return persistedCat
}

func unmarshal[T any](t *testing.T, body []byte) T {
	t.Helper()
	var result T
	err := json.Unmarshal(body, &result)
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func marshal[T any](t *testing.T, value T) []byte {
	t.Helper()
	result, err := json.Marshal(value)
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func doRequestAndExpect(t *testing.T, server *agency.Server, request *http.Request, expected int) *httptest.ResponseRecorder {
	t.Helper()
	response := httptest.NewRecorder()
	server.Handler().ServeHTTP(response, request)
	require.Equal(t, expected, response.Code, response.Body.String())
	return response
}

type FakeCatAPI struct {
	breeds []catapi.Breed
}

func NewFakeCatAPI() *FakeCatAPI {
	return &FakeCatAPI{
		[]catapi.Breed{
			{Id: "abys", Name: "Abyssinian"},
			{Id: "aege", Name: "Aegean"},
			{Id: "abob", Name: "American Bobtail"},
			{Id: "acur", Name: "American Curl"},
			{Id: "asho", Name: "American Shorthair"},
		},
	}
}

func (f *FakeCatAPI) ListBreeds(ctx context.Context) ([]catapi.Breed, error) {
	return f.breeds, nil
}
