package nlphost

import (
	"github.com/wippyai/parse-bridge/host"
	"github.com/wippyai/parse-bridge/nlp"
)

// Register installs the NLP classes into rt.
func Register(rt *host.Runtime) error {
	classes := []struct {
		ctor any
		name string
	}{
		{NewInteger, nlp.TypeInteger},
		{NewStringReader, nlp.TypeStringReader},
		{NewFeatureLabel, nlp.TypeFeatureLabel},
		{NewWord, nlp.TypeWord},
		{NewPTBTokenizer, nlp.TypePTBTokenizer},
		{NewDocumentPreprocessor, nlp.TypeDocumentPreprocessor},
		{NewTreebankParser, nlp.TypeLexicalizedParser},
	}
	for _, c := range classes {
		if err := rt.RegisterClass(c.name, c.ctor); err != nil {
			return err
		}
	}

	if err := rt.RegisterType(nlp.TypeTokenizerFactory, &TokenizerFactory{}); err != nil {
		return err
	}
	if err := rt.RegisterType(nlp.TypeTree, &Tree{}); err != nil {
		return err
	}
	for _, alias := range []string{nlp.TypeTreeNode, nlp.TypeTreeLeaf} {
		if err := rt.RegisterAlias(alias, nlp.TypeTree); err != nil {
			return err
		}
	}

	statics := []struct {
		value  any
		class  string
		member string
	}{
		{BeginPositionKey, nlp.TypeFeatureLabel, "BEGIN_POSITION_KEY"},
		{EndPositionKey, nlp.TypeFeatureLabel, "END_POSITION_KEY"},
		{CurrentKey, nlp.TypeFeatureLabel, "CURRENT_KEY"},
		{WordKey, nlp.TypeFeatureLabel, "WORD_KEY"},
		{BeforeKey, nlp.TypeFeatureLabel, "BEFORE_KEY"},
		{AfterKey, nlp.TypeFeatureLabel, "AFTER_KEY"},
		{Factory, nlp.TypePTBTokenizer, "factory"},
	}
	for _, s := range statics {
		if err := rt.RegisterStatic(s.class, s.member, s.value); err != nil {
			return err
		}
	}
	return nil
}

// NewRuntime returns a host runtime with the NLP classes registered.
func NewRuntime() (*host.Runtime, error) {
	rt := host.New()
	if err := Register(rt); err != nil {
		return nil, err
	}
	return rt, nil
}
