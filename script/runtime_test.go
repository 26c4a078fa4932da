package script

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/swarmthing/pending"
	"github.com/smallnest/swarmthing/store"
)

func newTestRuntime(t *testing.T) (*Runtime, *store.ToolStore) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "tools"))
	require.NoError(t, err)
	rt, err := NewRuntime(Config{Store: st})
	require.NoError(t, err)
	return rt, st
}

func TestInstallAndCall(t *testing.T) {
	rt, st := newTestRuntime(t)

	require.NoError(t, rt.Install("square", `function square(x) { return parseInt(x) * parseInt(x); }`))

	got, err := rt.Call("square", "5")
	require.NoError(t, err)
	assert.Equal(t, "25", got)

	// Installed tools are persisted.
	code, err := st.Inspect("square")
	require.NoError(t, err)
	assert.Contains(t, code, "function square")
}

func TestCall_ZeroArguments(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.Install("hello", `function hello() { return "hi"; }`))

	got, err := rt.Call("hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestCall_AtMostOneArgument(t *testing.T) {
	rt, _ := newTestRuntime(t)
	_, err := rt.Call("anything", "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one argument")
}

func TestCall_NotFound(t *testing.T) {
	rt, _ := newTestRuntime(t)

	_, err := rt.Call("nonexistent")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestCall_RuntimeFaultIsNotNotFound(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.Install("bad", `function bad() { throw new Error("boom"); }`))

	_, err := rt.Call("bad")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "bad")
}

func TestCall_FallsBackToNativeCapabilities(t *testing.T) {
	rt, _ := newTestRuntime(t)

	// list_tools is a native capability, not a merged script function.
	got, err := rt.Call("list_tools")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	require.NoError(t, rt.Install("dummy_tool", `function dummy_tool() { return "ok"; }`))
	require.NoError(t, rt.Install("magic_math", `function magic_math(x) { return parseInt(x) * 2; }`))

	got, err = rt.Call("list_tools")
	require.NoError(t, err)
	assert.Contains(t, got, "dummy_tool")
	assert.Contains(t, got, "magic_math")
}

func TestComposition(t *testing.T) {
	rt, _ := newTestRuntime(t)

	require.NoError(t, rt.Install("tool_a", `function tool_a(x) { return x + "_A"; }`))
	require.NoError(t, rt.Install("tool_b", `function tool_b(x) { return tool_a(x) + "_B"; }`))

	got, err := rt.Call("tool_b", "test")
	require.NoError(t, err)
	assert.Equal(t, "test_A_B", got)
}

func TestOverwrite_LastWriteWins(t *testing.T) {
	rt, _ := newTestRuntime(t)

	require.NoError(t, rt.Install("evolve_me", `function evolve_me() { return "version 1"; }`))
	got, err := rt.Call("evolve_me")
	require.NoError(t, err)
	assert.Equal(t, "version 1", got)

	require.NoError(t, rt.Install("evolve_me", `function evolve_me() { return "version 2"; }`))
	got, err = rt.Call("evolve_me")
	require.NoError(t, err)
	assert.Equal(t, "version 2", got)
}

func TestOverwrite_VisibleToEarlierCallSites(t *testing.T) {
	rt, _ := newTestRuntime(t)

	require.NoError(t, rt.Install("inner", `function inner() { return "old"; }`))
	require.NoError(t, rt.Install("outer", `function outer() { return inner(); }`))

	got, err := rt.Call("outer")
	require.NoError(t, err)
	assert.Equal(t, "old", got)

	// The global binding is resolved at call time, so outer observes
	// the new definition immediately.
	require.NoError(t, rt.Install("inner", `function inner() { return "new"; }`))
	got, err = rt.Call("outer")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestInstall_CompileErrorLeavesProgramUntouched(t *testing.T) {
	rt, st := newTestRuntime(t)

	err := rt.Install("broken", `function broken( {`)
	require.Error(t, err)

	_, callErr := rt.Call("broken")
	assert.True(t, IsNotFound(callErr))

	// Nothing was persisted either.
	_, inspectErr := st.Inspect("broken")
	assert.ErrorIs(t, inspectErr, store.ErrToolNotFound)
}

func TestLoadAll_DeterministicOrderAndMerge(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "tools"))
	require.NoError(t, err)
	require.NoError(t, st.Create("tool_a", `function tool_a(x) { return x + "_A"; }`))
	require.NoError(t, st.Create("tool_b", `function tool_b(x) { return tool_a(x) + "_B"; }`))

	rt, err := NewRuntime(Config{Store: st})
	require.NoError(t, err)
	require.NoError(t, rt.LoadAll())

	got, err := rt.Call("tool_b", "test")
	require.NoError(t, err)
	assert.Equal(t, "test_A_B", got)
	assert.ElementsMatch(t, []string{"tool_a", "tool_b"}, rt.Program())
}

func TestLoadAll_FailFast(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "tools"))
	require.NoError(t, err)
	require.NoError(t, st.Create("good", `function good() { return "ok"; }`))
	require.NoError(t, st.Create("broken", `function broken( {`))

	rt, err := NewRuntime(Config{Store: st})
	require.NoError(t, err)

	require.Error(t, rt.LoadAll())

	// No partial load: the good tool was not merged either.
	_, callErr := rt.Call("good")
	assert.True(t, IsNotFound(callErr))
}

func TestQueueLifecycle_ApproveInstalls(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "tools"))
	require.NoError(t, err)
	rt, err := NewRuntime(Config{Store: st})
	require.NoError(t, err)

	queue := pending.NewQueue()
	queue.Bind(rt)
	queue.Enqueue(pending.Tool{
		Name: "square",
		Code: `function square(x) { return parseInt(x) * parseInt(x); }`,
	})

	_, err = queue.Approve("square")
	require.NoError(t, err)

	got, err := rt.Call("square", "4")
	require.NoError(t, err)
	assert.Equal(t, "16", got)

	// Approved tools land in the store like locally created ones.
	assert.Contains(t, st.List(), "square")
}

func TestQueueLifecycle_RejectLeavesUncallable(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "tools"))
	require.NoError(t, err)
	rt, err := NewRuntime(Config{Store: st})
	require.NoError(t, err)

	queue := pending.NewQueue()
	queue.Bind(rt)
	queue.Enqueue(pending.Tool{Name: "square", Code: `function square(x) { return x; }`})

	_, err = queue.Reject("square")
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Len())

	_, callErr := rt.Call("square", "4")
	assert.True(t, IsNotFound(callErr))
}
