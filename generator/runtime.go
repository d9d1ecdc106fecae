package generator

// runtime is the module-level Python support code: code root discovery,
// search path setup and best-effort star import resolution. It mirrors the
// coderoot and starimport packages so the checks are repeated against the
// tree the test actually runs in.
const runtime = `

def _is_ignored(name):
    return name.startswith(".") or name.endswith(".egg-info") or name in IGNORED_DIRS


def _contains_script(directory):
    for _current, dirnames, filenames in os.walk(directory, onerror=lambda err: None):
        dirnames[:] = sorted(d for d in dirnames if not _is_ignored(d))
        if any(name.endswith(".py") for name in filenames):
            return True
    return False


def _discover_code_roots(repo_root):
    try:
        names = sorted(os.listdir(repo_root))
    except OSError:
        return []
    roots = []
    for name in names:
        path = os.path.join(repo_root, name)
        if _is_ignored(name) or not os.path.isdir(path):
            continue
        if _contains_script(path):
            roots.append(path)
    return roots


def _setup_search_path(search_roots):
    for root in reversed(search_roots):
        if root not in sys.path:
            sys.path.insert(0, root)


def _star_candidates(module_name):
    if not SOURCE_PREFIX or module_name == SOURCE_PREFIX:
        return [module_name]
    prefix = SOURCE_PREFIX + "."
    if module_name.startswith(prefix):
        return [module_name, module_name[len(prefix):]]
    return [module_name, prefix + module_name]


def _import_star_if_local(module_name):
    if module_name.startswith("."):
        return None
    for candidate in _star_candidates(module_name):
        base = os.path.join(*candidate.split("."))
        for root in CODE_ROOTS:
            path = os.path.join(root, base)
            if (
                os.path.isfile(path + ".py")
                or os.path.isfile(os.path.join(path, "__init__.py"))
                or os.path.isdir(path)
            ):
                return importlib.import_module(candidate)
    return None


CODE_ROOTS = _discover_code_roots(REPO_ROOT)
SEARCH_ROOTS = [REPO_ROOT] + CODE_ROOTS
_setup_search_path(SEARCH_ROOTS)
`
