package grading

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	// ErrInvalidScore は点数が 0〜100 の範囲外の場合に返却されます。
	ErrInvalidScore = errors.New("grading: score must be within 0 and 100")
	// ErrInvalidScale は評価基準が不正な場合に返却されます。
	ErrInvalidScale = errors.New("grading: invalid grading scale")
)

const maxScore = 100

// Grade は評価記号とその下限点です。
type Grade struct {
	Letter   string
	MinScore float64
	Points   float64
	Remark   string
}

// Scale は下限点の降順に並んだ評価基準です。
type Scale struct {
	grades []Grade
}

// NewScale は評価基準を検証して Scale を生成します。
func NewScale(grades []Grade) (*Scale, error) {
	if len(grades) == 0 {
		return nil, fmt.Errorf("no grades: %w", ErrInvalidScale)
	}

	sorted := make([]Grade, 0, len(grades))
	letters := make(map[string]bool, len(grades))
	hasFloor := false
	for _, g := range grades {
		g.Letter = strings.ToUpper(strings.TrimSpace(g.Letter))
		g.Remark = strings.TrimSpace(g.Remark)
		if g.Letter == "" {
			return nil, fmt.Errorf("empty letter: %w", ErrInvalidScale)
		}
		if letters[g.Letter] {
			return nil, fmt.Errorf("duplicate letter %q: %w", g.Letter, ErrInvalidScale)
		}
		if !validScore(g.MinScore) {
			return nil, fmt.Errorf("grade %q: min score out of range: %w", g.Letter, ErrInvalidScale)
		}
		letters[g.Letter] = true
		if g.MinScore == 0 {
			hasFloor = true
		}
		sorted = append(sorted, g)
	}
	if !hasFloor {
		return nil, fmt.Errorf("no grade starts at 0: %w", ErrInvalidScale)
	}

	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinScore > sorted[j].MinScore })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].MinScore == sorted[i-1].MinScore {
			return nil, fmt.Errorf("grades %q and %q share a min score: %w", sorted[i-1].Letter, sorted[i].Letter, ErrInvalidScale)
		}
	}

	return &Scale{grades: sorted}, nil
}

// DefaultScale は A 80, B 70, C 60, D 50, E 40, F 0 の評価基準を返します。
func DefaultScale() *Scale {
	scale, err := NewScale([]Grade{
		{Letter: "A", MinScore: 80, Points: 5, Remark: "Excellent"},
		{Letter: "B", MinScore: 70, Points: 4, Remark: "Very good"},
		{Letter: "C", MinScore: 60, Points: 3, Remark: "Good"},
		{Letter: "D", MinScore: 50, Points: 2, Remark: "Fair"},
		{Letter: "E", MinScore: 40, Points: 1, Remark: "Pass"},
		{Letter: "F", MinScore: 0, Points: 0, Remark: "Fail"},
	})
	if err != nil {
		panic(fmt.Sprintf("grading: default scale is invalid: %v", err))
	}
	return scale
}

// Grades は評価基準のコピーを下限点の降順で返します。
func (s *Scale) Grades() []Grade {
	out := make([]Grade, len(s.grades))
	copy(out, s.grades)
	return out
}

// GradeFor は点数に対応する評価を返します。
func (s *Scale) GradeFor(score float64) (Grade, error) {
	if !validScore(score) {
		return Grade{}, ErrInvalidScore
	}
	for _, g := range s.grades {
		if score >= g.MinScore {
			return g, nil
		}
	}
	return s.grades[len(s.grades)-1], nil
}

func validScore(score float64) bool {
	return !math.IsNaN(score) && !math.IsInf(score, 0) && score >= 0 && score <= maxScore
}
