package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth"
	"github.com/GoSim-25-26J-441/taskboard/internal/projects/projectstest"
	projservice "github.com/GoSim-25-26J-441/taskboard/internal/projects/service"
	"github.com/GoSim-25-26J-441/taskboard/internal/tasks/domain"
	"github.com/GoSim-25-26J-441/taskboard/internal/tasks/service"
	"github.com/GoSim-25-26J-441/taskboard/internal/tasks/taskstest"
)

const owner = "user-1"

type fixture struct {
	router   *gin.Engine
	tasks    *taskstest.Store
	projects *projectstest.Store
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	tasks, projects := taskstest.NewStore(), projectstest.NewStore()
	h := New(service.NewTaskService(tasks, projservice.NewProjectService(projects)))

	r := gin.New()
	api := r.Group("", func(c *gin.Context) {
		c.Set(auth.CtxUserID, owner)
		c.Next()
	})
	h.Register(api.Group("/tasks"))
	h.RegisterProjectTasks(api.Group("/projects"))
	return &fixture{router: r, tasks: tasks, projects: projects}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type taskResp struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors"`
	Task   *domain.Task        `json:"task"`
	Tasks  []domain.Task       `json:"tasks"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) taskResp {
	t.Helper()
	var out taskResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func strPtr(s string) *string { return &s }

func TestCreateTask(t *testing.T) {
	f := newFixture()
	p := f.projects.Seed(owner, "roadmap")

	w := f.do(http.MethodPost, "/tasks", `{"task":{"description":"write report","project_id":"`+p.PublicID+`"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	task := decode(t, w).Task
	require.NotNil(t, task)
	assert.Equal(t, "write report", task.Description)
	assert.False(t, task.Completed)
	require.NotNil(t, task.ProjectID)
	assert.Equal(t, p.PublicID, *task.ProjectID)
	assert.Equal(t, 1, f.tasks.Count(owner))

	w = f.do(http.MethodPost, "/tasks", `{"description":"","project_id":"proj-nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode(t, w)
	assert.Equal(t, []string{"can't be blank"}, resp.Errors["description"])
	assert.Equal(t, []string{"must exist"}, resp.Errors["project_id"])
	assert.Equal(t, 1, f.tasks.Count(owner))
}

func TestUpdateTask(t *testing.T) {
	f := newFixture()
	seeded := f.tasks.Seed(owner, domain.Attributes{Description: "original"})

	w := f.do(http.MethodPatch, "/tasks/"+seeded.PublicID, `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	task := decode(t, w).Task
	assert.True(t, task.Completed)
	assert.Equal(t, "original", task.Description)

	w = f.do(http.MethodPut, "/tasks/"+seeded.PublicID, `{"description":" "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "original", decode(t, w).Task.Description)

	w = f.do(http.MethodPut, "/tasks/task-missing", `{"completed":true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture()
	seeded := f.tasks.Seed(owner, domain.Attributes{Description: "doomed"})

	f.tasks.RefuseDelete = true
	w := f.do(http.MethodDelete, "/tasks/"+seeded.PublicID, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "task could not be deleted", decode(t, w).Error)
	assert.Equal(t, 1, f.tasks.Count(owner))

	f.tasks.RefuseDelete = false
	w = f.do(http.MethodDelete, "/tasks/"+seeded.PublicID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, 0, f.tasks.Count(owner))
}

func TestListTasks(t *testing.T) {
	f := newFixture()
	p := f.projects.Seed(owner, "roadmap")
	f.tasks.Seed(owner, domain.Attributes{Description: "filed", ProjectID: strPtr(p.PublicID)})
	f.tasks.Seed(owner, domain.Attributes{Description: "loose"})

	w := f.do(http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Tasks, 2)

	w = f.do(http.MethodGet, "/tasks?project_id="+p.PublicID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Tasks, 1)

	w = f.do(http.MethodGet, "/projects/"+p.PublicID+"/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decode(t, w).Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, "filed", tasks[0].Description)

	w = f.do(http.MethodGet, "/projects/proj-missing/tasks", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/tasks/task-missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
