package clap

// Plugin features advertised in the descriptor. Only the standard CLAP strings are
// listed; hosts match them verbatim.
const (
	FeatureInstrument  = "instrument"
	FeatureAudioEffect = "audio-effect"
	FeatureNoteEffect  = "note-effect"
	FeatureAnalyzer    = "analyzer"
	FeatureSynthesizer = "synthesizer"
	FeatureSampler     = "sampler"
	FeatureDrum        = "drum"
	FeatureFilter      = "filter"
	FeatureDelay       = "delay"
	FeatureReverb      = "reverb"
	FeatureUtility     = "utility"
	FeatureMono        = "mono"
	FeatureStereo      = "stereo"
	FeatureSurround    = "surround"
	FeatureAmbisonic   = "ambisonic"
)
