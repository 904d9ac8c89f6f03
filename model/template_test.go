package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSteps(t *testing.T) {
	tpl := &WorkflowTemplate{
		Name: "onboarding",
		Steps: []StepTemplate{
			{Name: "manager review", StepNumber: 7},
			{Name: "hr review"},
			{Name: "it setup", StepNumber: 2},
		},
	}
	tpl.NormalizeSteps()
	for i, step := range tpl.Steps {
		require.Equal(t, i+1, step.StepNumber)
	}

	// reordering re-derives numbers from array position
	tpl.Steps[0], tpl.Steps[2] = tpl.Steps[2], tpl.Steps[0]
	tpl.NormalizeSteps()
	require.Equal(t, 1, tpl.Steps[0].StepNumber)
	require.Equal(t, "it setup", tpl.Steps[0].Name)
	require.Equal(t, 3, tpl.Steps[2].StepNumber)
}

func TestActiveWorkflowList(t *testing.T) {
	tpl := &WorkflowTemplate{Name: "review"}
	require.False(t, tpl.HasActiveWorkflows())

	tpl.AddActiveWorkflow("wf-1")
	tpl.AddActiveWorkflow("wf-2")
	tpl.AddActiveWorkflow("wf-1")
	require.Equal(t, []string{"wf-1", "wf-2"}, tpl.CurrentActiveWorkflows)

	tpl.RemoveActiveWorkflow("wf-1")
	require.Equal(t, []string{"wf-2"}, tpl.CurrentActiveWorkflows)
	tpl.RemoveActiveWorkflow("wf-2")
	require.False(t, tpl.HasActiveWorkflows())
}

func TestCurrentStepData(t *testing.T) {
	instance := &WorkflowInstance{
		CurrentStep: 2,
		StepsData: []StepRuntime{
			{StepNumber: 1},
			{StepNumber: 2},
		},
	}
	require.Equal(t, 2, instance.CurrentStepData().StepNumber)
	require.True(t, instance.OnLastStep())

	instance.CurrentStep = 3
	require.Nil(t, instance.CurrentStepData())
}
