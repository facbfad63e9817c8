// Command simulation replays a scripted day of study activity through the
// ranking and achievement pipeline and prints what one viewer would see.
package main

import (
	"flag"
	"fmt"
	"time"

	"studyspace-be/internal/entity"
	"studyspace-be/pkg/achievement"
	"studyspace-be/pkg/ranking"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type student struct {
	id   uuid.UUID
	name string
}

// step is one feed emission: generations added per student since the last one.
type step struct {
	label string
	add   map[string]int
}

var (
	header  = color.New(color.FgCyan, color.Bold)
	viewerC = color.New(color.FgYellow, color.Bold)
	dim     = color.New(color.FgHiBlack)
	gold    = color.New(color.FgHiYellow, color.Bold)
	success = color.New(color.FgGreen)
)

func main() {
	viewerName := flag.String("viewer", "Maya", "student whose view is printed")
	dismiss := flag.Bool("dismiss", false, "dismiss each achievement right after it is shown")
	flag.Parse()

	names := []string{"Maya", "Rafi", "Sinta", "Yoga", "Lina", "Tomo", "Dian", "Nadia", "Bayu", "Putri", "Galih", "Rina"}
	students := make(map[string]student, len(names))
	for _, n := range names {
		students[n] = student{id: uuid.NewSHA1(uuid.NameSpaceOID, []byte(n)), name: n}
	}
	viewer, ok := students[*viewerName]
	if !ok {
		color.Red("unknown viewer %q", *viewerName)
		return
	}

	script := []step{
		{"08:00 morning warm-up", map[string]int{"Rafi": 6, "Sinta": 5, "Yoga": 5, "Lina": 4, "Tomo": 4, "Dian": 3, "Nadia": 3, "Bayu": 3, "Putri": 2, "Galih": 2, "Rina": 2, "Maya": 1}},
		{"10:00 Maya starts studying", map[string]int{"Maya": 4}},
		{"12:00 lunch lull", map[string]int{"Rafi": 1}},
		{"14:00 exam prep", map[string]int{"Maya": 3, "Sinta": 2}},
		{"16:00 nothing changes", map[string]int{}},
		{"18:00 final push", map[string]int{"Maya": 2}},
	}

	counts := make(map[string]int)
	lastActive := make(map[string]time.Time)
	day := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	tracker := achievement.NewTracker()

	for i, s := range script {
		at := day.Add(time.Duration(i*2) * time.Hour)
		for name, n := range s.add {
			counts[name] += n
			lastActive[name] = at
		}

		records := make([]entity.ActivityRecord, 0, len(counts))
		for name, n := range counts {
			records = append(records, entity.ActivityRecord{
				UserId:           students[name].id,
				DisplayName:      name,
				DailyGenerations: n,
				LastActiveDate:   lastActive[name],
			})
		}
		records = ranking.FilterActive(records, at, 24*time.Hour, 40)
		snap := ranking.BuildSnapshot(records, viewer.id, at)

		header.Printf("\n== %s ==\n", s.label)
		printBoard(snap, viewer.id)

		if unlocked := tracker.Observe(snap); unlocked != nil {
			printAchievement(unlocked)
			if *dismiss {
				tracker.Dismiss()
				dim.Println("   (dismissed)")
			}
		} else if current := tracker.Current(); current != nil {
			dim.Printf("   still showing %s #%d\n", current.Type, current.Rank)
		}
	}

	if best, ok := tracker.BestRankSeen(); ok {
		success.Printf("\nBest rank reached by %s: #%d\n", viewer.name, best)
	}
}

func printBoard(snap ranking.Snapshot, viewerID uuid.UUID) {
	for _, rec := range snap.Records {
		line := fmt.Sprintf("  #%-2d %-8s %3d", rec.Rank, rec.DisplayName, rec.DailyGenerations)
		if rec.UserId == viewerID {
			viewerC.Println(line + "  <- you")
			continue
		}
		fmt.Println(line)
	}
	if snap.ViewerRank == nil {
		dim.Println("  (not ranked)")
	}
}

func printAchievement(a *entity.Achievement) {
	if a.FromRank != nil {
		gold.Printf("🏆 %s: %s reached #%d (from #%d) with %d generations\n", a.Type, a.UserName, a.Rank, *a.FromRank, a.Count)
		return
	}
	gold.Printf("🏆 %s: %s reached #%d with %d generations\n", a.Type, a.UserName, a.Rank, a.Count)
}
