// Package record defines the two canonical record schemas recovered from
// language-model output, assessment errors and quiz questions, and the
// normalizer that coerces loosely-shaped decoded objects into them.
//
// Field names are resolved through explicit alias tables ([ErrorFields],
// [QuestionFields], [OptionFields]): an ordered list of accepted source keys
// per canonical field, evaluated once per record. Optional and derivable
// fields get defaults; records missing their primary content are dropped.
//
// The main entry points are [NewNormalizer], [Normalizer.Errors] and
// [Normalizer.Questions]. [NormalizeErrors] and [NormalizeQuestions] use the
// default settings.
package record
