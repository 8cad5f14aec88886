package gen

// A FeatureProto is a .proto file that only declares language feature
// extensions. Its generated C++ header carries nothing the thunks use, so
// the include is dropped when StripNonfunctionalCodegen is set.
type FeatureProto struct {
	// Path is the import path of the file.
	Path string

	// Language the features configure.
	Language string
}

var (
	// FeatureProtoCpp holds the C++ features.
	FeatureProtoCpp = FeatureProto{
		Path:     "google/protobuf/cpp_features.proto",
		Language: "cpp",
	}

	// FeatureProtoJava holds the Java features.
	FeatureProtoJava = FeatureProto{
		Path:     "google/protobuf/java_features.proto",
		Language: "java",
	}

	// FeatureProtoGo holds the Go features.
	FeatureProtoGo = FeatureProto{
		Path:     "google/protobuf/go_features.proto",
		Language: "go",
	}

	// featureProtoJavaInternal is the Java features file as laid out in
	// monorepo builds.
	featureProtoJavaInternal = FeatureProto{
		Path:     "third_party/java/protobuf/java_features.proto",
		Language: "java",
	}

	// AllFeatureProtos holds every known feature-only file.
	AllFeatureProtos = []FeatureProto{
		FeatureProtoCpp,
		FeatureProtoJava,
		FeatureProtoGo,
		featureProtoJavaInternal,
	}
)

// IsKnownFeatureProto reports whether path is a feature-only file.
func IsKnownFeatureProto(path string) bool {
	_, ok := LookupFeatureProto(path)
	return ok
}

// LookupFeatureProto returns the feature-only file at path.
func LookupFeatureProto(path string) (FeatureProto, bool) {
	for _, f := range AllFeatureProtos {
		if f.Path == path {
			return f, true
		}
	}
	return FeatureProto{}, false
}
