package main

import (
	"flag"
	"fmt"
	"maps"
	"math/rand"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Garsondee/codexrpg-client/internal/game"
)

// runStats summarizes one headless session.
type runStats struct {
	runIndex int
	seed     int64

	cols, rows int
	passable   int
	npcs       int

	wanderStarts  int
	wanderEnds    int
	pathSteps     int
	longestPath   int
	clicks        int
	arrivals      int
	unreachable   int
	firstWander   int
	idleNPCs      int
	stuckNPCs     map[string]struct{}
	particlesPeak int
}

func main() {
	runs := flag.Int("runs", 5, "simulated sessions")
	ticks := flag.Int("ticks", 3600, "frames per session")
	seedBase := flag.Int64("seed-base", 42, "seed of the first session")
	seedStep := flag.Int64("seed-step", 1, "seed delta between sessions")
	size := flag.Int("size", 32, "generated world edge length in tiles")
	npcs := flag.Int("npcs", 6, "NPCs per session")
	clickEvery := flag.Int("click-every", 180, "frames between simulated clicks (0 disables)")
	flag.Parse()

	switch {
	case *runs <= 0:
		fmt.Fprintln(os.Stderr, "headless-report: -runs must be positive")
		os.Exit(2)
	case *ticks <= 0:
		fmt.Fprintln(os.Stderr, "headless-report: -ticks must be positive")
		os.Exit(2)
	case *size < 2:
		fmt.Fprintln(os.Stderr, "headless-report: -size must be at least 2")
		os.Exit(2)
	}

	fmt.Printf("=== Headless Overworld Report ===\n")
	fmt.Printf("runs=%d ticks=%d size=%d npcs=%d seed_base=%d seed_step=%d\n\n",
		*runs, *ticks, *size, *npcs, *seedBase, *seedStep)

	var done []runStats
	for run := 1; run <= *runs; run++ {
		seed := *seedBase + int64(run-1) * *seedStep
		rs, err := runWorld(run, seed, *ticks, *size, *npcs, *clickEvery)
		if err != nil {
			fmt.Printf("run %d: error: %v\n", run, err)
			continue
		}
		printRun(rs)
		done = append(done, rs)
	}
	printAggregate(done)
}

func runWorld(runIndex int, seed int64, ticks, size, npcs, clickEvery int) (runStats, error) {
	cfg := game.DefaultWorldGenConfig
	cfg.Cols, cfg.Rows, cfg.Seed = size, size, seed

	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- report sampling
	opts := []game.WorldOption{
		game.WithGeneratedGrid(cfg),
		game.WithSeed(seed),
		game.WithPlayerAt(size/2, size/2),
	}
	for i := 0; i < npcs; i++ {
		opts = append(opts, game.WithNPC(fmt.Sprintf("npc-%d", i), fmt.Sprintf("Villager %d", i), "", rng.Intn(size), rng.Intn(size)))
	}
	tw, err := game.NewTestWorld(opts...)
	if err != nil {
		return runStats{}, err
	}
	w := tw.World

	rs := runStats{
		runIndex:    runIndex,
		seed:        seed,
		cols:        w.Grid.Cols,
		rows:        w.Grid.Rows,
		passable:    w.Grid.PassableCount(),
		npcs:        len(w.NPCs),
		firstWander: -1,
		stuckNPCs:   map[string]struct{}{},
	}

	for t := 0; t < ticks; t++ {
		if clickEvery > 0 && t > 0 && t%clickEvery == 0 && w.Player != nil {
			dest := game.Tile{X: rng.Intn(size), Y: rng.Intn(size)}
			from := w.Grid.ClampTile(w.Player.Pos.Round())
			if _, ok := w.Grid.FindPath(from, dest); !ok {
				rs.unreachable++
			}
			tw.ClickTile(dest)
			rs.clicks++
		}
		tw.RunTicks(1)
		if n := w.Particles.Len(); n > rs.particlesPeak {
			rs.particlesPeak = n
		}
	}

	for _, e := range tw.SimLog.Entries() {
		switch {
		case e.Category == "npc" && e.Key == game.NPCPathing.String():
			rs.wanderStarts++
			rs.pathSteps += int(e.NumVal)
			if int(e.NumVal) > rs.longestPath {
				rs.longestPath = int(e.NumVal)
			}
			if rs.firstWander < 0 {
				rs.firstWander = e.Tick
			}
		case e.Category == "npc" && e.Key == game.NPCIdle.String():
			rs.wanderEnds++
		case e.Category == "move" && e.Key == "arrived":
			rs.arrivals++
		}
	}
	for _, n := range w.NPCs {
		if n.State() == game.NPCIdle {
			rs.idleNPCs++
		}
		if len(tw.SimLog.FilterEntity(n.ID)) == 0 {
			rs.stuckNPCs[n.Name] = struct{}{}
		}
	}
	return rs, nil
}

func printRun(rs runStats) {
	fmt.Printf("--- run %d seed=%d ---\n", rs.runIndex, rs.seed)
	fmt.Printf("world=%dx%d passable=%d (%.0f%%) npcs=%d\n",
		rs.cols, rs.rows, rs.passable, pct(rs.passable, rs.cols*rs.rows), rs.npcs)
	fmt.Printf("wander: starts=%d ends=%d avg_path=%.1f longest=%d first_tick=%s\n",
		rs.wanderStarts, rs.wanderEnds, avg(rs.pathSteps, rs.wanderStarts), rs.longestPath, tickString(rs.firstWander))
	fmt.Printf("player: clicks=%d arrivals=%d unreachable_clicks=%d particles_peak=%d\n",
		rs.clicks, rs.arrivals, rs.unreachable, rs.particlesPeak)
	fmt.Printf("end_state: idle=%d never_moved=[%s]\n\n", rs.idleNPCs, joinSet(rs.stuckNPCs))
}

func printAggregate(runs []runStats) {
	if len(runs) == 0 {
		fmt.Println("no successful runs")
		return
	}
	var starts, steps, arrivals, clicks, stuck int
	var firsts []int
	for i := range runs {
		rs := &runs[i]
		starts += rs.wanderStarts
		steps += rs.pathSteps
		arrivals += rs.arrivals
		clicks += rs.clicks
		stuck += len(rs.stuckNPCs)
		if rs.firstWander >= 0 {
			firsts = append(firsts, rs.firstWander)
		}
	}
	fmt.Println("=== Aggregate ===")
	fmt.Printf("sessions=%d\n", len(runs))
	fmt.Printf("avg_wander_starts_per_run=%.1f avg_path_len=%.1f avg_first_wander_tick=%s\n",
		avg(starts, len(runs)), avg(steps, starts), avgTickString(firsts))
	fmt.Printf("player_arrival_rate=%.0f%% never_moved_npcs=%d\n", pct(arrivals, clicks), stuck)
}

// avg is sum/n, or 0 for an empty sample.
func avg(sum, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(part, whole int) float64 { return avg(part*100, whole) }

func tickString(t int) string {
	if t < 0 {
		return "n/a"
	}
	return strconv.Itoa(t)
}

func avgTickString(ticks []int) string {
	if len(ticks) == 0 {
		return "n/a"
	}
	total := 0
	for _, t := range ticks {
		total += t
	}
	return strconv.FormatFloat(avg(total, len(ticks)), 'f', 1, 64)
}

// joinSet lists the names of s alphabetically.
func joinSet(s map[string]struct{}) string {
	names := slices.Sorted(maps.Keys(s))
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
