package service

import "quiz_platform_backend/internal/model"

// ScoreSelection grades a selected-option set against the correct set for
// one question. It is pure: membership of the options in the question has
// already been validated by the lifecycle manager.
//
// SINGLE_CHOICE is correct iff exactly one option is selected and it is
// marked correct. MULTIPLE_CHOICE is correct iff the selected set equals the
// correct set exactly; there is no partial credit, the question's full point
// value is all-or-nothing.
func ScoreSelection(questionType model.QuestionType, points int, correctIDs, selectedIDs []uint) (bool, int) {
	switch questionType {
	case model.SingleChoice:
		if len(selectedIDs) != 1 {
			return false, 0
		}
		if containsID(correctIDs, selectedIDs[0]) {
			return true, points
		}
		return false, 0

	case model.MultipleChoice:
		if sameIDSet(correctIDs, selectedIDs) {
			return true, points
		}
		return false, 0
	}

	return false, 0
}

// ScoreAnswer grades a selection against a fully loaded catalog question.
func ScoreAnswer(question *model.Question, selectedIDs []uint) (bool, int) {
	return ScoreSelection(question.Type, question.Points, question.CorrectOptionIDs(), selectedIDs)
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func sameIDSet(a, b []uint) bool {
	set := make(map[uint]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	seen := make(map[uint]struct{}, len(b))
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return len(seen) == len(set)
}
