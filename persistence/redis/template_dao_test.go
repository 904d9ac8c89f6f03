package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mohitkumar/flowdesk/model"
	"github.com/mohitkumar/flowdesk/persistence"
	"github.com/stretchr/testify/require"
)

func TestTemplateDao(t *testing.T) {
	for scenario, fn := range map[string]func(
		t *testing.T, dao *redisTemplateDao,
	){
		"test save and get":         testTemplateSaveGet,
		"test version conflict":     testTemplateVersionConflict,
		"test list and delete":      testTemplateListDelete,
		"test get missing template": testTemplateNotFound,
	} {
		t.Run(scenario, func(t *testing.T) {
			mr := miniredis.RunT(t)
			conf := &Config{
				Addrs:     []string{mr.Addr()},
				Namespace: "test",
			}
			dao := NewRedisTemplateDao(*conf)

			fn(t, dao)
		})
	}
}

func testTemplateSaveGet(t *testing.T, dao *redisTemplateDao) {
	tpl := &model.WorkflowTemplate{
		Id:       "tpl-1",
		Name:     "expense approval",
		IsActive: true,
		Steps: []model.StepTemplate{
			{StepNumber: 1, Name: "manager review", AssignedUser: "u1", DurationInDays: 2},
			{StepNumber: 2, Name: "finance review", AssignedUser: "u2"},
		},
	}
	require.NoError(t, dao.Save(tpl))
	require.Equal(t, int64(1), tpl.Version)

	stored, err := dao.Get("tpl-1")
	require.NoError(t, err)
	require.Equal(t, "expense approval", stored.Name)
	require.Len(t, stored.Steps, 2)
	require.Equal(t, int64(1), stored.Version)
}

func testTemplateVersionConflict(t *testing.T, dao *redisTemplateDao) {
	tpl := &model.WorkflowTemplate{Id: "tpl-1", Name: "review", Steps: []model.StepTemplate{{Name: "a"}}}
	require.NoError(t, dao.Save(tpl))

	stale := &model.WorkflowTemplate{Id: "tpl-1", Name: "review", Version: 0}
	err := dao.Save(stale)
	require.Error(t, err)
	_, ok := err.(persistence.ConflictError)
	require.True(t, ok)

	// the fresh copy writes fine
	require.NoError(t, dao.Save(tpl))
	require.Equal(t, int64(2), tpl.Version)
}

func testTemplateListDelete(t *testing.T, dao *redisTemplateDao) {
	require.NoError(t, dao.Save(&model.WorkflowTemplate{Id: "tpl-1", Name: "one"}))
	require.NoError(t, dao.Save(&model.WorkflowTemplate{Id: "tpl-2", Name: "two"}))

	templates, err := dao.List()
	require.NoError(t, err)
	require.Len(t, templates, 2)

	require.NoError(t, dao.Delete("tpl-1"))
	templates, err = dao.List()
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, "tpl-2", templates[0].Id)
}

func testTemplateNotFound(t *testing.T, dao *redisTemplateDao) {
	_, err := dao.Get("missing")
	require.Error(t, err)
	_, ok := err.(persistence.NotFoundError)
	require.True(t, ok)
}
