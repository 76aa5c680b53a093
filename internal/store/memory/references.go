package memory

import (
	"context"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
)

type referenceRepo Store

func (r *referenceRepo) List(ctx context.Context, kind repository.ReferenceKind) ([]repository.ReferenceItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.refs[kind]
	out := make([]repository.ReferenceItem, len(items))
	copy(out, items)
	return out, nil
}

func (r *referenceRepo) Get(ctx context.Context, kind repository.ReferenceKind, id int64) (*repository.ReferenceItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.refs[kind] {
		if it.ID == id {
			cp := it
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func defaultCatalogue() map[repository.ReferenceKind][]repository.ReferenceItem {
	named := func(kind repository.ReferenceKind, names ...string) []repository.ReferenceItem {
		out := make([]repository.ReferenceItem, len(names))
		for i, n := range names {
			out[i] = repository.ReferenceItem{ID: int64(i + 1), Kind: kind, Name: n}
		}
		return out
	}

	weekDays := []repository.ReferenceItem{
		{ID: 1, Name: "월", FullName: "월요일"},
		{ID: 2, Name: "화", FullName: "화요일"},
		{ID: 3, Name: "수", FullName: "수요일"},
		{ID: 4, Name: "목", FullName: "목요일"},
		{ID: 5, Name: "금", FullName: "금요일"},
		{ID: 6, Name: "토", FullName: "토요일"},
		{ID: 7, Name: "일", FullName: "일요일"},
	}
	for i := range weekDays {
		weekDays[i].Kind = repository.KindWeekDays
	}

	return map[repository.ReferenceKind][]repository.ReferenceItem{
		repository.KindJobs:           named(repository.KindJobs, "프론트엔드", "백엔드", "디자이너", "기획자", "iOS", "안드로이드", "데브옵스"),
		repository.KindIndustries:     named(repository.KindIndustries, "핀테크", "헬스케어", "교육", "커머스", "게임", "소셜"),
		repository.KindSkills:         named(repository.KindSkills, "Go", "Java", "Spring", "React", "TypeScript", "Figma", "Kotlin", "Swift"),
		repository.KindWeekDays:       weekDays,
		repository.KindTimesOfWorking: named(repository.KindTimesOfWorking, "오전", "오후", "저녁", "상관없음"),
		repository.KindWaysOfWorking:  named(repository.KindWaysOfWorking, "온라인", "오프라인", "온/오프라인"),
		repository.KindSidoes:         named(repository.KindSidoes, "서울", "경기", "인천", "부산", "대구", "대전", "광주"),
		repository.KindPortfolioURLs:  named(repository.KindPortfolioURLs, "GitHub", "Blog", "Notion", "LinkedIn", "Behance"),
	}
}
