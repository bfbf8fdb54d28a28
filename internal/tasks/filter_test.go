package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleScenario(t *testing.T) {
	all := seeded().Tasks()

	assert.Equal(t, all, Visible(all, CompletionAll, ""))

	completed := Visible(all, CompletionCompleted, "")
	require.Len(t, completed, 1)
	assert.Equal(t, 2, completed[0].ID)

	bob := Visible(all, CompletionActive, "Bob")
	require.Len(t, bob, 1)
	assert.Equal(t, 1, bob[0].ID)

	assert.Empty(t, Visible(all, CompletionActive, "Ann"))
}

func TestVisibleActiveAndCompletedPartitionStore(t *testing.T) {
	s := seeded().Add("c").Add("d").ToggleComplete(4)
	all := s.Tasks()

	active := Visible(all, CompletionActive, "")
	completed := Visible(all, CompletionCompleted, "")
	assert.Len(t, all, len(active)+len(completed))

	ids := map[int]int{}
	for _, task := range active {
		assert.False(t, task.Completed)
		ids[task.ID]++
	}
	for _, task := range completed {
		assert.True(t, task.Completed)
		ids[task.ID]++
	}
	for _, task := range all {
		assert.Equal(t, 1, ids[task.ID], "task %d", task.ID)
	}
}

func TestVisibleAssigneeComposesWithCompletion(t *testing.T) {
	all := NewStore("Alice").Replace([]Task{
		{ID: 1, Text: "a", Completed: false, UserName: "Alice"},
		{ID: 2, Text: "b", Completed: true, UserName: "Alice"},
		{ID: 3, Text: "c", Completed: false, UserName: "Bob"},
		{ID: 4, Text: "d", Completed: false, UserName: "Alice"},
	}).Tasks()

	var want []Task
	for _, task := range Visible(all, CompletionActive, "") {
		if task.UserName == "Alice" {
			want = append(want, task)
		}
	}
	assert.Equal(t, want, Visible(all, CompletionActive, "Alice"))
}

func TestVisibleDoesNotModifyInput(t *testing.T) {
	all := seeded().Tasks()
	before := append([]Task(nil), all...)
	_ = Visible(all, CompletionCompleted, "Ann")
	assert.Equal(t, before, all)
}

func TestAssigneesFirstSeenOrder(t *testing.T) {
	all := []Task{
		{ID: 1, UserName: "Bob"},
		{ID: 2, UserName: "Ann"},
		{ID: 3, UserName: "Bob"},
		{ID: 4, UserName: UnknownUser},
		{ID: 5, UserName: "Ann"},
	}
	assert.Equal(t, []string{"Bob", "Ann", UnknownUser}, Assignees(all))
	assert.Empty(t, Assignees(nil))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 1, Remaining(seeded().Tasks()))
	assert.Zero(t, Remaining(nil))
}

func TestParseCompletion(t *testing.T) {
	cases := map[string]Completion{
		"":          CompletionAll,
		"all":       CompletionAll,
		"Active":    CompletionActive,
		" completed": CompletionCompleted,
	}
	for in, want := range cases {
		got, err := ParseCompletion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCompletion("done")
	assert.Error(t, err)
}

func TestCompletionNextCycles(t *testing.T) {
	assert.Equal(t, CompletionActive, CompletionAll.Next())
	assert.Equal(t, CompletionCompleted, CompletionActive.Next())
	assert.Equal(t, CompletionAll, CompletionCompleted.Next())
}
