package question

import "github.com/abhisek/dyscreen/internal/catalog"

// Fallback returns the minimal built-in question set used when no bank can
// be loaded. It covers one question per section.
func Fallback() *Bank {
	defs := []Definition{
		{ID: "fb-aud-simple", TestType: catalog.Auditory, Step: "simple/1", Module: catalog.PhonologicalAwareness,
			Prompt: "Which word starts like ball?", Audio: "ball", MaxScore: 2,
			Body: Choice{Options: []string{"bat", "cat", "dog"}, Answer: 0}},
		{ID: "fb-aud-rhyme", TestType: catalog.Auditory, Step: "rhyme/1", Module: catalog.PhonologicalAwareness,
			Prompt: "Which word rhymes with cake?", Audio: "cake", MaxScore: 2,
			Body: Choice{Options: []string{"lake", "cook", "kite"}, Answer: 0}},
		{ID: "fb-aud-syllable", TestType: catalog.Auditory, Step: "syllable/1", Module: catalog.Decoding,
			Prompt: "How many claps in butterfly?", Audio: "butterfly", MaxScore: 2,
			Body: Choice{Options: []string{"1", "2", "3"}, Answer: 2}},
		{ID: "fb-aud-memory", TestType: catalog.Auditory, Step: "memory/1", Module: catalog.Fluency,
			Prompt: "Type the numbers you heard.", Audio: "4 - 1 - 8", MaxScore: 2,
			Body: Text{Accepted: []string{"418"}}},

		{ID: "fb-vis-letters", TestType: catalog.Visual, Step: "letters/1", Module: catalog.Decoding,
			Prompt: "Find the letter b.", MaxScore: 2,
			Body: Choice{Options: []string{"d", "b", "p"}, Answer: 1}},
		{ID: "fb-vis-mirror", TestType: catalog.Visual, Step: "mirror/1", Module: catalog.Decoding,
			Prompt: "Pick the word that matches: bed", MaxScore: 2,
			Body: Choice{Options: []string{"deb", "bed", "ped"}, Answer: 1}},
		{ID: "fb-vis-sequence", TestType: catalog.Visual, Step: "sequence/1", Module: catalog.Fluency,
			Prompt: "What comes next? b d b d ?", MaxScore: 2,
			Body: Choice{Options: []string{"b", "d", "q"}, Answer: 0}},
		{ID: "fb-vis-copy", TestType: catalog.Visual, Step: "copy/1", Module: catalog.SpellingWriting,
			Prompt: "Copy this letter: b", MaxScore: 3,
			Body: Drawing{Target: "b", MinStrokes: 2}},

		{ID: "fb-lang-vocabulary", TestType: catalog.Language, Step: "vocabulary/1", Module: catalog.LanguageComprehension,
			Prompt: "What does enormous mean?", MaxScore: 2,
			Body: Choice{Options: []string{"tiny", "very big", "quick"}, Answer: 1}},
		{ID: "fb-lang-comprehension", TestType: catalog.Language, Step: "comprehension/1", Module: catalog.LanguageComprehension,
			Prompt: "Sam has a red kite. What colour is the kite?", MaxScore: 2,
			Body: Choice{Options: []string{"blue", "red", "green"}, Answer: 1}},
		{ID: "fb-lang-phonics", TestType: catalog.Language, Step: "phonics/1", Module: catalog.Decoding,
			Prompt: "Which letters start the word ship?", Audio: "ship", MaxScore: 2,
			Body: Choice{Options: []string{"ch", "sh", "th"}, Answer: 1}},
		{ID: "fb-lang-spelling", TestType: catalog.Language, Step: "spelling/1", Module: catalog.SpellingWriting,
			Prompt: "Spell the pet that says meow.", MaxScore: 2,
			Body: Text{Accepted: []string{"cat"}}},
		{ID: "fb-lang-sentence", TestType: catalog.Language, Step: "sentence/1", Module: catalog.LanguageComprehension,
			Prompt: "Which sentence is right?", MaxScore: 2,
			Body: Choice{Options: []string{"The dog runs fast.", "the dog run fast."}, Answer: 0}},
		{ID: "fb-lang-fluency", TestType: catalog.Language, Step: "fluency/1", Module: catalog.Fluency,
			Prompt: "Type this word: jump", MaxScore: 2,
			Body: Text{Accepted: []string{"jump"}}},
	}
	b, err := NewBank("v1.0.0", defs)
	if err != nil {
		panic("question: invalid fallback set: " + err.Error())
	}
	return b
}
