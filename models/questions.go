package models

// Question is a stored multiple-choice question including its answer key.
type Question struct {
	PublicQuestion `yaml:",inline"`
	Answer         string `db:"answer" yaml:"answer"`
}

// PublicQuestion is what a learner is allowed to see: no answer.
type PublicQuestion struct {
	Id      int    `db:"id" yaml:"-"`
	Stem    string `db:"stem" yaml:"stem"`
	ChoiceA string `db:"choice_a" yaml:"choice_a"`
	ChoiceB string `db:"choice_b" yaml:"choice_b"`
	ChoiceC string `db:"choice_c" yaml:"choice_c"`
	ChoiceD string `db:"choice_d" yaml:"choice_d"`
}

// Choice is one lettered option, used by the exam template.
type Choice struct {
	Letter string
	Text   string
}

func (q PublicQuestion) Choices() []Choice {
	return []Choice{
		{Letter: "A", Text: q.ChoiceA},
		{Letter: "B", Text: q.ChoiceB},
		{Letter: "C", Text: q.ChoiceC},
		{Letter: "D", Text: q.ChoiceD},
	}
}

var QuestionsSchema = `
CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    stem TEXT NOT NULL,
    choice_a TEXT NOT NULL,
    choice_b TEXT NOT NULL,
    choice_c TEXT NOT NULL,
    choice_d TEXT NOT NULL,
    answer TEXT NOT NULL CHECK(answer IN ('A','B','C','D'))
);`
