package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/testimpact/internal/config"
	"github.com/rohankatakam/testimpact/internal/git"
	"github.com/rohankatakam/testimpact/internal/models"
	"github.com/rohankatakam/testimpact/internal/report"
)

const sampleDiff = `diff --git a/src/main/java/UserController.java b/src/main/java/UserController.java
index 1111111..2222222 100644
--- a/src/main/java/UserController.java
+++ b/src/main/java/UserController.java
@@ -1,3 +1,8 @@
+public class UserController {
+    public ResponseEntity<User> login(LoginRequest req) {
+        return ok(auth.login(req));
+    }
+}
diff --git a/src/main/java/PaymentService.java b/src/main/java/PaymentService.java
index 3333333..4444444 100644
--- a/src/main/java/PaymentService.java
+++ b/src/main/java/PaymentService.java
@@ -10,4 +10,5 @@ public class PaymentService {
     public Money total(Order order) {
+        // fix rounding of the payment total
         return order.sum().round();
     }
diff --git a/src/test/java/PaymentServiceTest.java b/src/test/java/PaymentServiceTest.java
index 5555555..6666666 100644
--- a/src/test/java/PaymentServiceTest.java
+++ b/src/test/java/PaymentServiceTest.java
@@ -1,2 +1,3 @@
 class PaymentServiceTest {
+    // new assertion added below
`

func newTestEngine() *Engine {
	return New(config.Default(), nil)
}

func TestAnalyzeEmptyDiff(t *testing.T) {
	eng := newTestEngine()

	rep := eng.Analyze(context.Background(), git.DiffResult{Success: true, Diff: "", HeadSHA: "abc1234"}, "/work/shop")

	require.NotNil(t, rep)
	assert.Equal(t, 0, rep.Summary.TotalImpacts)
	assert.Equal(t, 0, rep.Summary.TotalTestRequirements)
	assert.Equal(t, "abc1234", rep.GitRef)
	assert.Equal(t, "/work/shop", rep.ProjectPath)

	valid, err := report.Validate(rep)
	assert.True(t, valid)
	assert.NoError(t, err)
}

func TestAnalyzeFailedDiffSource(t *testing.T) {
	eng := newTestEngine()

	// An unavailable diff never aborts analysis; the gate passes on an
	// empty report.
	rep := eng.Analyze(context.Background(), git.DiffResult{Success: false, Error: "not a git repository"}, ".")

	require.NotNil(t, rep)
	assert.Empty(t, rep.Impacts)
	valid, err := report.Validate(rep)
	assert.True(t, valid)
	assert.NoError(t, err)
	assert.False(t, report.HasUncoveredCriticalImpacts(rep))
}

func TestAnalyzePipeline(t *testing.T) {
	eng := newTestEngine()

	source := git.DiffResult{
		Success: true,
		Diff:    sampleDiff,
		HeadSHA: "abc1234",
		TotalLines: git.LineCount(sampleDiff),
		FilesChanged: []string{
			"src/main/java/UserController.java",
			"src/main/java/PaymentService.java",
			"src/test/java/PaymentServiceTest.java",
		},
	}
	rep := eng.Analyze(context.Background(), source, "/work/shop")

	require.Len(t, rep.Impacts, 3)

	controller := rep.Impacts[0]
	assert.Equal(t, "IMP-001", controller.ID)
	assert.Equal(t, models.CategoryEndpoint, controller.Category)
	assert.Equal(t, models.RiskBusinessCritical, controller.RiskLevel)
	assert.Equal(t, models.TestTypeController, controller.RequiredTestType)
	assert.Contains(t, controller.AffectedComponents, "UserController")
	assert.False(t, controller.IsBugFix)

	payment := rep.Impacts[1]
	assert.Equal(t, "IMP-002", payment.ID)
	assert.Equal(t, models.CategoryBusinessRule, payment.Category)
	assert.Equal(t, models.RiskBusinessCritical, payment.RiskLevel)
	assert.True(t, payment.IsBugFix)

	test := rep.Impacts[2]
	assert.Equal(t, "IMP-003", test.ID)
	assert.Equal(t, models.CategoryTest, test.Category)
	assert.Equal(t, models.RiskNonCritical, test.RiskLevel)

	// Requirements: controller nominal + 2 edges; payment nominal +
	// 2 edges + regression + invariant; test file none.
	assert.Len(t, rep.TestRequirements, 8)
	for i, req := range rep.TestRequirements {
		assert.Equal(t, fmt.Sprintf("TEST-%03d", i+1), req.ID)
	}

	valid, err := report.Validate(rep)
	assert.True(t, valid, "%v", err)
	assert.False(t, report.HasUncoveredCriticalImpacts(rep))

	assert.Equal(t, "abc1234", rep.GitRef)
	assert.Equal(t, git.CountChangedLines(sampleDiff), rep.TotalLinesChanged)
}

func TestAnalyzeDiffLinesCoverDiff(t *testing.T) {
	eng := newTestEngine()
	source := git.DiffResult{Success: true, Diff: sampleDiff, HeadSHA: "abc1234"}
	rep := eng.Analyze(context.Background(), source, ".")

	require.Len(t, rep.Impacts, 3)
	assert.Equal(t, 1, rep.Impacts[0].DiffLines[0])
	for i := 1; i < len(rep.Impacts); i++ {
		// Sections are contiguous across the whole diff.
		assert.Equal(t, rep.Impacts[i-1].DiffLines[1]+1, rep.Impacts[i].DiffLines[0])
	}
	assert.Equal(t, git.LineCount(sampleDiff), rep.Impacts[2].DiffLines[1])
}

func TestAnalyzeChunkedKeepsOrderAndNumbering(t *testing.T) {
	// Synthesize a diff well past the large-diff threshold.
	var sb strings.Builder
	n := 40
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("src/main/java/Service%02dManager.java", i)
		fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", path, path)
		fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
		for j := 0; j < 20; j++ {
			fmt.Fprintf(&sb, "+        value%d = compute();\n", j)
		}
	}
	diff := sb.String()
	require.True(t, git.IsLarge(diff, config.Default().Chunking.LargeDiffThreshold))

	eng := newTestEngine()
	rep := eng.Analyze(context.Background(), git.DiffResult{Success: true, Diff: diff, HeadSHA: "abc1234"}, ".")

	require.Len(t, rep.Impacts, n)
	lastEnd := 0
	for i, impact := range rep.Impacts {
		assert.Equal(t, fmt.Sprintf("IMP-%03d", i+1), impact.ID)
		assert.Equal(t, fmt.Sprintf("src/main/java/Service%02dManager.java", i), impact.FilePath)
		// DiffLines stay relative to the whole diff, not the chunk.
		assert.Equal(t, lastEnd+1, impact.DiffLines[0])
		lastEnd = impact.DiffLines[1]
	}
	assert.Equal(t, git.LineCount(diff), lastEnd)

	valid, err := report.Validate(rep)
	assert.True(t, valid, "%v", err)
}
