// Package testing provides deterministic drivers for animation tests.
//
// # Manual Ticking
//
// A [ManualTicker] replaces the scheduler's timer so each frame happens
// exactly when the test asks for it:
//
//	func TestFade(t *testing.T) {
//	    sched, ticker := tweentest.NewScheduler(t)
//	    _, err := animation.Animate(sched, slot, 1.0, animation.DefaultOptions())
//	    require.NoError(t, err)
//
//	    ticks, idle := ticker.FireUntilIdle(100)
//	    require.True(t, idle)
//	    t.Logf("settled after %d ticks", ticks)
//	}
//
// # Fake Time
//
// Tasks are stamped with the animation clock when they start. [UseFakeClock]
// installs a [FakeClock] for the duration of a test.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import tweentest "github.com/go-drift/tween/pkg/testing"
package testing
