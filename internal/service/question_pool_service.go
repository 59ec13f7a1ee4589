package service

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sort"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"

	"gorm.io/gorm"
)

// QuestionPoolService resolves a quiz's configured entries (concrete
// questions plus category placeholders) into the concrete ordered question
// set one learner's attempt uses.
type QuestionPoolService struct {
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	AttemptRepo  *repository.AttemptRepository
	UserRepo     *repository.UserRepository
	Cfg          *config.Config
}

func NewQuestionPoolService(
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *QuestionPoolService {
	return &QuestionPoolService{
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
		UserRepo:     userRepo,
		Cfg:          cfg,
	}
}

// newRand is re-seeded per call rather than per process so concurrent
// workers do not hand out identical samples.
func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Resolve returns the question set for a learner attempt. The first call
// persists the selected id list on the attempt record; later calls return
// exactly that recorded set in the recorded order, skipping ids that no
// longer exist, so a returning learner is graded against the questions they
// actually answered.
func (s *QuestionPoolService) Resolve(quizID, userID uint) ([]model.Question, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	attempt, err := s.AttemptRepo.FindByQuizAndUser(quizID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if attempt != nil && attempt.ResolvedQuestionIDs != "" {
		var ids []uint
		if err := json.Unmarshal([]byte(attempt.ResolvedQuestionIDs), &ids); err == nil {
			return s.QuestionRepo.FindByIDs(ids)
		}
	}

	ids, err := s.expand(quiz)
	if err != nil {
		return nil, err
	}

	rng := newRand()
	if quiz.ShowQuestions > 0 && len(ids) > quiz.ShowQuestions {
		ids = sampleInOrder(rng, ids, quiz.ShowQuestions)
	}
	if quiz.RandomizeOrder {
		rng.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
	}

	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		attempt = &model.QuizAttempt{
			QuizID:              quizID,
			UserID:              userID,
			ResolvedQuestionIDs: string(encoded),
		}
		if err := s.AttemptRepo.Create(attempt); err != nil {
			return nil, err
		}
	} else {
		attempt.ResolvedQuestionIDs = string(encoded)
		if err := s.AttemptRepo.Save(attempt); err != nil {
			return nil, err
		}
	}

	return s.QuestionRepo.FindByIDs(ids)
}

// ResolveForEditing expands the full configured set without sampling,
// shuffling or persisting anything. Used by the administrative surface
// where the complete pool must stay visible.
func (s *QuestionPoolService) ResolveForEditing(quizID uint) ([]model.Question, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	ids, err := s.expand(quiz)
	if err != nil {
		return nil, err
	}
	return s.QuestionRepo.FindByIDs(ids)
}

// expand walks the quiz's configured rows in order. Concrete references pass
// through; each category placeholder is replaced by Count questions drawn at
// random from its category, never repeating an id already selected elsewhere
// in the expansion. An undersized category yields what it has.
func (s *QuestionPoolService) expand(quiz *model.Quiz) ([]uint, error) {
	rows, err := s.QuizRepo.QuestionRows(quiz.ID)
	if err != nil {
		return nil, err
	}

	authorFilter := s.categoryAuthorFilter(quiz)
	rng := newRand()

	seen := make(map[uint]bool)
	var ids []uint
	add := func(id uint) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, row := range rows {
		if row.IsPlaceholder() {
			candidates, err := s.QuestionRepo.ListIDsByCategory(*row.CategoryID, ids, authorFilter)
			if err != nil {
				return nil, err
			}
			rng.Shuffle(len(candidates), func(i, j int) {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			})
			take := row.Count
			if take > len(candidates) {
				take = len(candidates)
			}
			for _, id := range candidates[:take] {
				add(id)
			}
			continue
		}
		if row.QuestionID != nil {
			add(*row.QuestionID)
		}
	}

	return ids, nil
}

// categoryAuthorFilter restricts placeholder expansion to the quiz owner's
// own questions when the owner is not an administrator. The restriction can
// be switched off in configuration.
func (s *QuestionPoolService) categoryAuthorFilter(quiz *model.Quiz) uint {
	if !s.Cfg.Quiz.RestrictCategoryAuthor {
		return 0
	}
	owner, err := s.UserRepo.FindByID(quiz.OwnerID)
	if err != nil || owner.Role == model.Admin {
		return 0
	}
	return quiz.OwnerID
}

// sampleInOrder draws a uniform without-replacement sample of size k and
// returns it in the original relative order, so a non-randomized quiz keeps
// the administrator-defined sequence.
func sampleInOrder(rng *rand.Rand, ids []uint, k int) []uint {
	indexes := rng.Perm(len(ids))[:k]
	sort.Ints(indexes)
	sampled := make([]uint, 0, k)
	for _, i := range indexes {
		sampled = append(sampled, ids[i])
	}
	return sampled
}
